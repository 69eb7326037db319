package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/voice"
)

// MockVoiceProvider is a mock type for the voice Provider type
type MockVoiceProvider struct {
	mock.Mock
}

// Name provides a mock function with no fields
func (_m *MockVoiceProvider) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// Descriptor provides a mock function with no fields
func (_m *MockVoiceProvider) Descriptor() voice.Descriptor {
	ret := _m.Called()

	var r0 voice.Descriptor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(voice.Descriptor)
	}
	return r0
}

// ValidateConfig provides a mock function with no fields
func (_m *MockVoiceProvider) ValidateConfig() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Synthesize provides a mock function with given fields: ctx, text, language, opts
func (_m *MockVoiceProvider) Synthesize(ctx context.Context, text string, language string, opts voice.Options) (voice.Audio, error) {
	ret := _m.Called(ctx, text, language, opts)

	var r0 voice.Audio
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(voice.Audio)
	}
	return r0, ret.Error(1)
}

// NewMockVoiceProvider creates a new instance of MockVoiceProvider. It also registers a testing interface on the mock.
func NewMockVoiceProvider(t interface {
	mock.TestingT
	Helper()
}) *MockVoiceProvider {
	m := &MockVoiceProvider{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ voice.Provider = (*MockVoiceProvider)(nil)

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/models"
	"fable-server/internal/service"
	"fable-server/internal/storage"
	"fable-server/internal/voice"
)

// MockGenerator is a mock type for the Generator type
type MockGenerator struct {
	mock.Mock
}

// GenerateStory provides a mock function with given fields: ctx, req
func (_m *MockGenerator) GenerateStory(ctx context.Context, req *models.GenerationRequest) (*models.Story, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

// NewMockGenerator creates a new instance of MockGenerator. It also registers a testing interface on the mock.
func NewMockGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.Generator = (*MockGenerator)(nil)

// MockSynthesizer is a mock type for the Synthesizer type
type MockSynthesizer struct {
	mock.Mock
}

// Synthesize provides a mock function with given fields: ctx, text, language, requestedProvider, opts
func (_m *MockSynthesizer) Synthesize(ctx context.Context, text string, language string, requestedProvider string, opts voice.Options) models.AudioGenerationResult {
	ret := _m.Called(ctx, text, language, requestedProvider, opts)

	var r0 models.AudioGenerationResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(models.AudioGenerationResult)
	}
	return r0
}

// NewMockSynthesizer creates a new instance of MockSynthesizer. It also registers a testing interface on the mock.
func NewMockSynthesizer(t interface {
	mock.TestingT
	Helper()
}) *MockSynthesizer {
	m := &MockSynthesizer{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.Synthesizer = (*MockSynthesizer)(nil)

// MockAudioStore is a mock type for the AudioStore type
type MockAudioStore struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, data, filename, ownerID
func (_m *MockAudioStore) Upload(ctx context.Context, data []byte, filename string, ownerID string) (string, error) {
	ret := _m.Called(ctx, data, filename, ownerID)
	return ret.String(0), ret.Error(1)
}

// NewMockAudioStore creates a new instance of MockAudioStore. It also registers a testing interface on the mock.
func NewMockAudioStore(t interface {
	mock.TestingT
	Helper()
}) *MockAudioStore {
	m := &MockAudioStore{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ storage.AudioStore = (*MockAudioStore)(nil)

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/generation"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, systemPrompt, userPrompt, params
func (_m *MockAIClient) GenerateText(ctx context.Context, systemPrompt string, userPrompt string, params generation.GenerationParams) (generation.Generation, error) {
	ret := _m.Called(ctx, systemPrompt, userPrompt, params)

	var r0 generation.Generation
	if rf, ok := ret.Get(0).(func(context.Context, string, string, generation.GenerationParams) generation.Generation); ok {
		r0 = rf(ctx, systemPrompt, userPrompt, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(generation.Generation)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, generation.GenerationParams) error); ok {
		r1 = rf(ctx, systemPrompt, userPrompt, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock.
func NewMockAIClient(t interface {
	mock.TestingT
	Helper()
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ generation.AIClient = (*MockAIClient)(nil)

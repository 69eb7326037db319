package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fable-server/internal/generation"
	"fable-server/internal/models"
)

// MockEvaluator is a mock type for the Evaluator type
type MockEvaluator struct {
	mock.Mock
}

// Score provides a mock function with given fields: ctx, candidate, req
func (_m *MockEvaluator) Score(ctx context.Context, candidate string, req *models.GenerationRequest) (generation.Evaluation, error) {
	ret := _m.Called(ctx, candidate, req)

	var r0 generation.Evaluation
	if rf, ok := ret.Get(0).(func(context.Context, string, *models.GenerationRequest) generation.Evaluation); ok {
		r0 = rf(ctx, candidate, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(generation.Evaluation)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, *models.GenerationRequest) error); ok {
		r1 = rf(ctx, candidate, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockEvaluator creates a new instance of MockEvaluator. It also registers a testing interface on the mock.
func NewMockEvaluator(t interface {
	mock.TestingT
	Helper()
}) *MockEvaluator {
	m := &MockEvaluator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ generation.Evaluator = (*MockEvaluator)(nil)

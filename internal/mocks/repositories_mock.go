package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fable-server/internal/models"
	"fable-server/internal/repository"
)

// MockFragmentRepository is a mock type for the FragmentRepository type
type MockFragmentRepository struct {
	mock.Mock
}

// ListActive provides a mock function with given fields: ctx, language, storyType
func (_m *MockFragmentRepository) ListActive(ctx context.Context, language string, storyType models.StoryType) ([]models.PromptFragment, error) {
	ret := _m.Called(ctx, language, storyType)

	var r0 []models.PromptFragment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.PromptFragment)
	}
	return r0, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, fragment
func (_m *MockFragmentRepository) Create(ctx context.Context, fragment *models.PromptFragment) error {
	ret := _m.Called(ctx, fragment)
	return ret.Error(0)
}

// Update provides a mock function with given fields: ctx, fragment
func (_m *MockFragmentRepository) Update(ctx context.Context, fragment *models.PromptFragment) error {
	ret := _m.Called(ctx, fragment)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *MockFragmentRepository) Delete(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockFragmentRepository) GetByID(ctx context.Context, id int64) (*models.PromptFragment, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.PromptFragment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PromptFragment)
	}
	return r0, ret.Error(1)
}

// NewMockFragmentRepository creates a new instance of MockFragmentRepository. It also registers a testing interface on the mock.
func NewMockFragmentRepository(t interface {
	mock.TestingT
	Helper()
}) *MockFragmentRepository {
	m := &MockFragmentRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.FragmentRepository = (*MockFragmentRepository)(nil)

// MockAttemptRepository is a mock type for the AttemptRepository type
type MockAttemptRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, attempt
func (_m *MockAttemptRepository) Save(ctx context.Context, attempt *models.GenerationAttempt) error {
	ret := _m.Called(ctx, attempt)
	return ret.Error(0)
}

// ListByGeneration provides a mock function with given fields: ctx, generationID
func (_m *MockAttemptRepository) ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]models.GenerationAttempt, error) {
	ret := _m.Called(ctx, generationID)

	var r0 []models.GenerationAttempt
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.GenerationAttempt)
	}
	return r0, ret.Error(1)
}

// NewMockAttemptRepository creates a new instance of MockAttemptRepository. It also registers a testing interface on the mock.
func NewMockAttemptRepository(t interface {
	mock.TestingT
	Helper()
}) *MockAttemptRepository {
	m := &MockAttemptRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.AttemptRepository = (*MockAttemptRepository)(nil)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, story
func (_m *MockStoryRepository) Save(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

// UpdateRating provides a mock function with given fields: ctx, id, rating
func (_m *MockStoryRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating int) error {
	ret := _m.Called(ctx, id, rating)
	return ret.Error(0)
}

// AttachAudio provides a mock function with given fields: ctx, id, url, provider, voiceID
func (_m *MockStoryRepository) AttachAudio(ctx context.Context, id uuid.UUID, url string, provider string, voiceID string) error {
	ret := _m.Called(ctx, id, url, provider, voiceID)
	return ret.Error(0)
}

// SetAudioError provides a mock function with given fields: ctx, id, note
func (_m *MockStoryRepository) SetAudioError(ctx context.Context, id uuid.UUID, note string) error {
	ret := _m.Called(ctx, id, note)
	return ret.Error(0)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository. It also registers a testing interface on the mock.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)

// MockHeroRepository is a mock type for the HeroRepository type
type MockHeroRepository struct {
	mock.Mock
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockHeroRepository) GetByID(ctx context.Context, id string) (*models.Hero, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Hero
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Hero)
	}
	return r0, ret.Error(1)
}

// NewMockHeroRepository creates a new instance of MockHeroRepository. It also registers a testing interface on the mock.
func NewMockHeroRepository(t interface {
	mock.TestingT
	Helper()
}) *MockHeroRepository {
	m := &MockHeroRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.HeroRepository = (*MockHeroRepository)(nil)

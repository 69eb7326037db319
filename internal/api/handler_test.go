package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/api"
	"fable-server/internal/mocks"
	"fable-server/internal/models"
	"fable-server/internal/repository"
	"fable-server/internal/service"
	"fable-server/internal/voice"
)

type handlerFixture struct {
	router    *gin.Engine
	publisher *mocks.MockTaskPublisher
	fragments *mocks.MockFragmentRepository
	stories   *mocks.MockStoryRepository
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	publisher := mocks.NewMockTaskPublisher(t)
	fragments := mocks.NewMockFragmentRepository(t)
	stories := mocks.NewMockStoryRepository(t)

	storyService := service.NewStoryService(
		mocks.NewMockGenerator(t),
		mocks.NewMockSynthesizer(t),
		mocks.NewMockAudioStore(t),
		stories,
		mocks.NewMockHeroRepository(t),
		zap.NewNop(),
	)
	registry := voice.NewRegistry(nil, "", nil, zap.NewNop())

	router := gin.New()
	handler := api.NewStoryHandler(storyService, publisher, fragments, registry, zap.NewNop())
	handler.RegisterRoutes(router)

	return &handlerFixture{
		router:    router,
		publisher: publisher,
		fragments: fragments,
		stories:   stories,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func validStoryRequest() map[string]any {
	return map[string]any{
		"user_id":               "user-1",
		"language":              "en",
		"story_type":            "solo",
		"child_hero_id":         "hero-1",
		"moral":                 "kindness",
		"target_length_minutes": 5,
	}
}

func TestEnqueueStory_Accepted(t *testing.T) {
	f := newHandlerFixture(t)
	f.publisher.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()

	w := f.do(t, http.MethodPost, "/stories", validStoryRequest())

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["task_id"])
}

func TestEnqueueStory_RejectsInvalidRequests(t *testing.T) {
	f := newHandlerFixture(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"unsupported language", func(r map[string]any) { r["language"] = "jp" }},
		{"unknown story type", func(r map[string]any) { r["story_type"] = "duet" }},
		{"length out of range", func(r map[string]any) { r["target_length_minutes"] = 99 }},
		{"missing child hero for solo", func(r map[string]any) { delete(r, "child_hero_id") }},
		{"missing companion hero for combined", func(r map[string]any) { r["story_type"] = "combined" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validStoryRequest()
			tt.mutate(body)
			w := f.do(t, http.MethodPost, "/stories", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	f.publisher.AssertNotCalled(t, "Enqueue")
}

func TestGetStory(t *testing.T) {
	f := newHandlerFixture(t)
	storyID := uuid.New()

	f.stories.On("GetByID", mock.Anything, storyID).
		Return(&models.Story{ID: storyID, Title: "The Kind Dragon"}, nil).Once()

	w := f.do(t, http.MethodGet, "/stories/"+storyID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var story models.Story
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &story))
	assert.Equal(t, "The Kind Dragon", story.Title)
}

func TestGetStory_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	storyID := uuid.New()

	f.stories.On("GetByID", mock.Anything, storyID).
		Return(nil, repository.ErrStoryNotFound).Once()

	w := f.do(t, http.MethodGet, "/stories/"+storyID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStory_InvalidID(t *testing.T) {
	f := newHandlerFixture(t)
	w := f.do(t, http.MethodGet, "/stories/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateStory(t *testing.T) {
	f := newHandlerFixture(t)
	storyID := uuid.New()

	f.stories.On("UpdateRating", mock.Anything, storyID, 5).Return(nil).Once()

	w := f.do(t, http.MethodPost, "/stories/"+storyID.String()+"/rating", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodPost, "/stories/"+storyID.String()+"/rating", map[string]any{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFragment(t *testing.T) {
	f := newHandlerFixture(t)

	f.fragments.On("Create", mock.Anything, mock.MatchedBy(func(fr *models.PromptFragment) bool {
		return fr.Language == "en" && fr.Priority == 10 && fr.Active
	})).Return(nil).Once()

	w := f.do(t, http.MethodPost, "/admin/fragments", map[string]any{
		"priority": 10,
		"language": "en",
		"template": "You are a storyteller.",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateFragment_SlotConflict(t *testing.T) {
	f := newHandlerFixture(t)

	f.fragments.On("Create", mock.Anything, mock.Anything).
		Return(repository.ErrFragmentSlotOccupied).Once()

	w := f.do(t, http.MethodPost, "/admin/fragments", map[string]any{
		"priority": 10,
		"language": "en",
		"template": "duplicate slot",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateFragment_InvalidStoryType(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/admin/fragments", map[string]any{
		"priority":   10,
		"language":   "en",
		"story_type": "duet",
		"template":   "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.fragments.AssertNotCalled(t, "Create")
}

func TestHealth(t *testing.T) {
	f := newHandlerFixture(t)
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

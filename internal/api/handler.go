package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fable-server/internal/generation"
	"fable-server/internal/messaging"
	"fable-server/internal/models"
	"fable-server/internal/repository"
	"fable-server/internal/service"
	"fable-server/internal/voice"
)

// APIError is the standardized error response body.
type APIError struct {
	Message string `json:"message"`
}

// StoryHandler serves the HTTP surface: story intake, retrieval, rating,
// narration and fragment administration.
type StoryHandler struct {
	stories   *service.StoryService
	publisher messaging.TaskPublisher
	fragments repository.FragmentRepository
	registry  *voice.Registry
	logger    *zap.Logger
}

func NewStoryHandler(
	stories *service.StoryService,
	publisher messaging.TaskPublisher,
	fragments repository.FragmentRepository,
	registry *voice.Registry,
	logger *zap.Logger,
) *StoryHandler {
	return &StoryHandler{
		stories:   stories,
		publisher: publisher,
		fragments: fragments,
		registry:  registry,
		logger:    logger.Named("StoryHandler"),
	}
}

// RegisterRoutes attaches all routes to the router.
func (h *StoryHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	stories := r.Group("/stories")
	{
		stories.POST("", h.enqueueStory)
		stories.GET("/:id", h.getStory)
		stories.POST("/:id/rating", h.rateStory)
	}

	r.POST("/audio/synthesize", h.synthesizeAudio)
	r.GET("/voices", h.listVoices)

	admin := r.Group("/admin/fragments")
	{
		admin.POST("", h.createFragment)
		admin.GET("/:id", h.getFragment)
		admin.PUT("/:id", h.updateFragment)
		admin.DELETE("/:id", h.deleteFragment)
	}
}

// --- Story intake --- //

type generateStoryRequest struct {
	UserID              string `json:"user_id" binding:"required"`
	Language            string `json:"language" binding:"required"`
	StoryType           string `json:"story_type" binding:"required"`
	ChildHeroID         string `json:"child_hero_id,omitempty"`
	CompanionHeroID     string `json:"companion_hero_id,omitempty"`
	RelationshipNote    string `json:"relationship_note,omitempty"`
	Moral               string `json:"moral" binding:"required"`
	TargetLengthMinutes int    `json:"target_length_minutes" binding:"required"`
	ParentStorySummary  string `json:"parent_story_summary,omitempty"`
	WithAudio           bool   `json:"with_audio"`
	VoiceProvider       string `json:"voice_provider,omitempty"`
	VoiceID             string `json:"voice_id,omitempty"`
}

type enqueueStoryResponse struct {
	TaskID string `json:"task_id"`
}

// enqueueStory validates the cheap invariants, queues the task and returns
// 202. The result arrives through the notifications queue.
func (h *StoryHandler) enqueueStory(c *gin.Context) {
	var req generateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.validateIntake(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
		return
	}

	taskID := uuid.NewString()
	payload := messaging.StoryTaskPayload{
		TaskID:              taskID,
		UserID:              req.UserID,
		Language:            req.Language,
		StoryType:           req.StoryType,
		ChildHeroID:         req.ChildHeroID,
		CompanionHeroID:     req.CompanionHeroID,
		RelationshipNote:    req.RelationshipNote,
		Moral:               req.Moral,
		TargetLengthMinutes: req.TargetLengthMinutes,
		ParentStorySummary:  req.ParentStorySummary,
		WithAudio:           req.WithAudio,
		VoiceProvider:       req.VoiceProvider,
		VoiceID:             req.VoiceID,
	}

	if err := h.publisher.Enqueue(c.Request.Context(), payload); err != nil {
		h.logger.Error("Failed to enqueue generation task",
			zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "Failed to enqueue generation task"})
		return
	}

	c.JSON(http.StatusAccepted, enqueueStoryResponse{TaskID: taskID})
}

// validateIntake rejects requests the worker would reject anyway, before
// they occupy queue space. Profile resolution stays with the worker.
func (h *StoryHandler) validateIntake(req *generateStoryRequest) error {
	probe := models.GenerationRequest{
		Language:            req.Language,
		StoryType:           models.StoryType(req.StoryType),
		TargetLengthMinutes: req.TargetLengthMinutes,
	}
	if err := probe.Validate(); err != nil && !errors.Is(err, models.ErrMissingProfile) {
		return err
	}

	storyType := models.StoryType(req.StoryType)
	if (storyType == models.StoryTypeSolo || storyType == models.StoryTypeCombined) && req.ChildHeroID == "" {
		return errors.New("child_hero_id is required for this story type")
	}
	if (storyType == models.StoryTypeCompanion || storyType == models.StoryTypeCombined) && req.CompanionHeroID == "" {
		return errors.New("companion_hero_id is required for this story type")
	}
	return nil
}

// --- Story retrieval and rating --- //

func (h *StoryHandler) getStory(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid story id format"})
		return
	}

	story, err := h.stories.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

type rateStoryRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (h *StoryHandler) rateStory(c *gin.Context) {
	var req rateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, APIError{Message: "rating must be between 1 and 5"})
		return
	}
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid story id format"})
		return
	}

	if err := h.stories.RateStory(c.Request.Context(), c.Param("id"), req.Rating); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Narration --- //

type synthesizeAudioRequest struct {
	Text     string  `json:"text" binding:"required"`
	Language string  `json:"language" binding:"required"`
	Provider string  `json:"provider,omitempty"`
	VoiceID  string  `json:"voice_id,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
}

// synthesizeAudio runs standalone narration. The result is always 200 with
// a structured body; a failed synthesis is a Success=false result, not an
// HTTP error.
func (h *StoryHandler) synthesizeAudio(c *gin.Context) {
	var req synthesizeAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	result := h.stories.SynthesizeAudio(c.Request.Context(), req.Text, req.Language, req.Provider,
		voice.Options{VoiceID: req.VoiceID, Speed: req.Speed})

	c.JSON(http.StatusOK, gin.H{
		"success":       result.Success,
		"provider":      result.ProviderName,
		"metadata":      result.Metadata,
		"error_message": result.ErrorMessage,
		"audio_bytes":   len(result.Audio),
	})
}

func (h *StoryHandler) listVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.registry.Descriptors()})
}

// --- Fragment administration --- //

type fragmentRequest struct {
	Priority  int     `json:"priority"`
	Language  string  `json:"language" binding:"required"`
	StoryType *string `json:"story_type,omitempty"`
	Template  string  `json:"template" binding:"required"`
	Active    *bool   `json:"active,omitempty"`
}

func (r *fragmentRequest) toModel() (*models.PromptFragment, error) {
	fragment := &models.PromptFragment{
		Priority: r.Priority,
		Language: r.Language,
		Template: r.Template,
		Active:   true,
	}
	if r.Active != nil {
		fragment.Active = *r.Active
	}
	if r.StoryType != nil {
		storyType := models.StoryType(*r.StoryType)
		if !storyType.IsValid() {
			return nil, errors.New("invalid story_type: " + *r.StoryType)
		}
		fragment.StoryType = &storyType
	}
	return fragment, nil
}

func (h *StoryHandler) createFragment(c *gin.Context) {
	var req fragmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	fragment, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
		return
	}

	if err := h.fragments.Create(c.Request.Context(), fragment); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fragment)
}

func (h *StoryHandler) getFragment(c *gin.Context) {
	id, err := parseFragmentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid fragment id"})
		return
	}

	fragment, err := h.fragments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fragment)
}

func (h *StoryHandler) updateFragment(c *gin.Context) {
	id, err := parseFragmentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid fragment id"})
		return
	}

	var req fragmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	fragment, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
		return
	}
	fragment.ID = id

	if err := h.fragments.Update(c.Request.Context(), fragment); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fragment)
}

func (h *StoryHandler) deleteFragment(c *gin.Context) {
	id, err := parseFragmentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid fragment id"})
		return
	}

	if err := h.fragments.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFragmentID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// --- Error mapping --- //

func (h *StoryHandler) handleServiceError(c *gin.Context, err error) {
	var failure *generation.GenerationFailure

	switch {
	case errors.Is(err, repository.ErrStoryNotFound),
		errors.Is(err, repository.ErrFragmentNotFound),
		errors.Is(err, repository.ErrHeroNotFound):
		c.JSON(http.StatusNotFound, APIError{Message: err.Error()})
	case errors.Is(err, repository.ErrFragmentSlotOccupied):
		c.JSON(http.StatusConflict, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidLanguage),
		errors.Is(err, models.ErrInvalidStoryType),
		errors.Is(err, models.ErrInvalidTargetLength),
		errors.Is(err, models.ErrProfileMismatch),
		errors.Is(err, models.ErrMissingProfile):
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	case errors.As(err, &failure):
		c.JSON(http.StatusBadGateway, gin.H{
			"message":        "generation exhausted all attempts",
			"attempts_count": failure.AttemptsCount,
		})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "Internal server error"})
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fable-server/internal/models"
	"fable-server/internal/repository"
	"fable-server/internal/storage"
	"fable-server/internal/voice"
)

// Generator produces a winning story for a request. Satisfied by
// generation.Orchestrator; an interface here keeps the service testable.
type Generator interface {
	GenerateStory(ctx context.Context, req *models.GenerationRequest) (*models.Story, error)
}

// Synthesizer produces narration audio. Satisfied by voice.Coordinator.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language, requestedProvider string, opts voice.Options) models.AudioGenerationResult
}

// StoryService is the surface the transport layers call: generate a story
// (with optional narration) and persist the result.
type StoryService struct {
	generator   Generator
	synthesizer Synthesizer
	audioStore  storage.AudioStore
	stories     repository.StoryRepository
	heroes      repository.HeroRepository
	logger      *zap.Logger
}

func NewStoryService(
	generator Generator,
	synthesizer Synthesizer,
	audioStore storage.AudioStore,
	stories repository.StoryRepository,
	heroes repository.HeroRepository,
	logger *zap.Logger,
) *StoryService {
	return &StoryService{
		generator:   generator,
		synthesizer: synthesizer,
		audioStore:  audioStore,
		stories:     stories,
		heroes:      heroes,
		logger:      logger.Named("StoryService"),
	}
}

// GenerateStory runs the full pipeline: generation loop, optional
// narration, persistence. Audio failures never fail the story: it is
// saved with empty audio fields and an internal note of the reason.
func (s *StoryService) GenerateStory(ctx context.Context, req *models.GenerationRequest) (*models.Story, error) {
	story, err := s.generator.GenerateStory(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.WithAudio {
		s.attachAudio(ctx, story, req)
	}

	if err := s.stories.Save(ctx, story); err != nil {
		return nil, fmt.Errorf("story generated but could not be saved: %w", err)
	}
	return story, nil
}

// attachAudio synthesizes narration and fills the story's audio fields in
// memory, before the story row is written.
func (s *StoryService) attachAudio(ctx context.Context, story *models.Story, req *models.GenerationRequest) {
	result := s.synthesizer.Synthesize(ctx, story.Content, req.Language, req.VoiceProvider,
		voice.Options{VoiceID: req.VoiceID})
	if !result.Success {
		s.logger.Warn("Narration unavailable, story proceeds without audio",
			zap.String("story_id", story.ID.String()),
			zap.String("reason", result.ErrorMessage))
		note := result.ErrorMessage
		story.AudioError = &note
		return
	}

	filename := story.ID.String() + audioExtension(result.Metadata)
	url, err := s.audioStore.Upload(ctx, result.Audio, filename, req.UserID)
	if err != nil {
		s.logger.Warn("Audio upload failed, story proceeds without audio",
			zap.String("story_id", story.ID.String()), zap.Error(err))
		note := fmt.Sprintf("audio upload failed: %v", err)
		story.AudioError = &note
		return
	}

	story.AudioURL = &url
	provider := result.ProviderName
	story.AudioProvider = &provider
	if voiceID, ok := result.Metadata["voice_id"]; ok {
		story.AudioVoiceID = &voiceID
	}
}

// SynthesizeAudio exposes narration on its own, independent of story
// generation.
func (s *StoryService) SynthesizeAudio(ctx context.Context, text, language, providerHint string, opts voice.Options) models.AudioGenerationResult {
	return s.synthesizer.Synthesize(ctx, text, language, providerHint, opts)
}

// GetStory fetches a persisted story.
func (s *StoryService) GetStory(ctx context.Context, id string) (*models.Story, error) {
	storyID, err := parseStoryID(id)
	if err != nil {
		return nil, err
	}
	return s.stories.GetByID(ctx, storyID)
}

// RateStory records a reader rating (1..5).
func (s *StoryService) RateStory(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d out of range 1..5", rating)
	}
	storyID, err := parseStoryID(id)
	if err != nil {
		return err
	}
	return s.stories.UpdateRating(ctx, storyID, rating)
}

// ResolveProfile loads a stored hero row and converts it to the profile
// variant matching the story type.
func (s *StoryService) ResolveProfile(ctx context.Context, heroID string, storyType models.StoryType) (models.CharacterProfile, error) {
	hero, err := s.heroes.GetByID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	switch storyType {
	case models.StoryTypeSolo:
		return hero.AsChild(), nil
	case models.StoryTypeCompanion:
		return hero.AsCompanion(), nil
	default:
		return nil, fmt.Errorf("profile id %q cannot serve story type %q", heroID, storyType)
	}
}

func parseStoryID(id string) (uuid.UUID, error) {
	storyID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid story id %q: %w", id, err)
	}
	return storyID, nil
}

func audioExtension(metadata map[string]string) string {
	if metadata["format"] == "wav" {
		return ".wav"
	}
	return ".mp3"
}

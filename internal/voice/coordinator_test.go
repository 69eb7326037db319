package voice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/mocks"
	"fable-server/internal/voice"
)

func newCoordinator(providers ...voice.Provider) *voice.Coordinator {
	var defaultName string
	if len(providers) > 0 {
		defaultName = providers[0].Name()
	}
	registry := voice.NewRegistry(providers, defaultName, nil, zap.NewNop())
	return voice.NewCoordinator(registry, time.Second, zap.NewNop())
}

func TestSynthesize_EmptyTextShortCircuits(t *testing.T) {
	provider := newProvider(t, "alpha", nil)
	coordinator := newCoordinator(provider)

	result := coordinator.Synthesize(context.Background(), "   \n ", "en", "", voice.Options{})

	assert.False(t, result.Success)
	assert.Equal(t, "empty text", result.ErrorMessage)
	provider.AssertNotCalled(t, "Synthesize")
}

func TestSynthesize_Success(t *testing.T) {
	provider := newProvider(t, "alpha", nil)
	provider.On("Synthesize", mock.Anything, "hello", "en", mock.Anything).
		Return(voice.Audio{
			Bytes:    []byte("mp3-bytes"),
			VoiceID:  "nova",
			ModelID:  "tts-1",
			Metadata: map[string]string{"format": "mp3"},
		}, nil).Once()

	result := newCoordinator(provider).Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "alpha", result.ProviderName)
	assert.Equal(t, []byte("mp3-bytes"), result.Audio)
	assert.Equal(t, "nova", result.Metadata["voice_id"])
	assert.Equal(t, "tts-1", result.Metadata["model_id"])
	assert.Equal(t, "mp3", result.Metadata["format"])
	assert.Empty(t, result.ErrorMessage)
}

func TestSynthesize_FallsBackOnProviderError(t *testing.T) {
	failing := newProvider(t, "alpha", nil)
	failing.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{}, errors.New("quota exceeded")).Once()

	working := newProvider(t, "beta", nil)
	working.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{Bytes: []byte("audio")}, nil).Once()

	result := newCoordinator(failing, working).Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "beta", result.ProviderName)
}

func TestSynthesize_SkipsProviderByCapability(t *testing.T) {
	englishOnly := mocks.NewMockVoiceProvider(t)
	englishOnly.On("Name").Return("english-only").Maybe()
	englishOnly.On("ValidateConfig").Return(nil).Maybe()
	englishOnly.On("Descriptor").Return(voice.Descriptor{
		Name: "english-only", Languages: []string{"en"},
	}).Maybe()

	short := mocks.NewMockVoiceProvider(t)
	short.On("Name").Return("short").Maybe()
	short.On("ValidateConfig").Return(nil).Maybe()
	short.On("Descriptor").Return(voice.Descriptor{
		Name: "short", MaxTextLength: 3,
	}).Maybe()

	multilingual := newProvider(t, "multilingual", nil)
	multilingual.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{Bytes: []byte("audio")}, nil).Once()

	coordinator := newCoordinator(englishOnly, short, multilingual)
	result := coordinator.Synthesize(context.Background(), "привет, это сказка", "ru", "", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "multilingual", result.ProviderName)
	englishOnly.AssertNotCalled(t, "Synthesize")
	short.AssertNotCalled(t, "Synthesize")
}

func TestSynthesize_AllProvidersExhausted(t *testing.T) {
	alpha := newProvider(t, "alpha", nil)
	alpha.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{}, errors.New("down")).Once()

	beta := newProvider(t, "beta", nil)
	beta.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{}, errors.New("also down")).Once()

	result := newCoordinator(alpha, beta).Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "beta")
	assert.Contains(t, result.ErrorMessage, "also down")
}

func TestSynthesize_EmptyAudioAdvancesChain(t *testing.T) {
	empty := newProvider(t, "alpha", nil)
	empty.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{}, nil).Once()

	working := newProvider(t, "beta", nil)
	working.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{Bytes: []byte("audio")}, nil).Once()

	result := newCoordinator(empty, working).Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "beta", result.ProviderName)
}

func TestSynthesize_ProviderPanicIsContained(t *testing.T) {
	panicking := newProvider(t, "alpha", nil)
	panicking.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(voice.Audio{}, nil).Once()

	working := newProvider(t, "beta", nil)
	working.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{Bytes: []byte("audio")}, nil).Once()

	result := newCoordinator(panicking, working).Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "beta", result.ProviderName)
}

func TestSynthesize_NoProvidersRegistered(t *testing.T) {
	registry := voice.NewRegistry(nil, "", nil, zap.NewNop())
	coordinator := voice.NewCoordinator(registry, time.Second, zap.NewNop())

	result := coordinator.Synthesize(context.Background(), "hello", "en", "", voice.Options{})

	assert.False(t, result.Success)
	assert.Equal(t, "no provider available", result.ErrorMessage)
}

func TestSynthesize_RequestedProviderTriedFirst(t *testing.T) {
	alpha := newProvider(t, "alpha", nil)

	beta := newProvider(t, "beta", nil)
	beta.On("Synthesize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(voice.Audio{Bytes: []byte("audio")}, nil).Once()

	registry := voice.NewRegistry([]voice.Provider{alpha, beta}, "alpha", nil, zap.NewNop())
	coordinator := voice.NewCoordinator(registry, time.Second, zap.NewNop())

	result := coordinator.Synthesize(context.Background(), "hello", "en", "beta", voice.Options{})

	require.True(t, result.Success)
	assert.Equal(t, "beta", result.ProviderName)
	alpha.AssertNotCalled(t, "Synthesize")
}

package voice_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/mocks"
	"fable-server/internal/voice"
)

func newProvider(t *testing.T, name string, configErr error) *mocks.MockVoiceProvider {
	t.Helper()
	p := mocks.NewMockVoiceProvider(t)
	p.On("Name").Return(name).Maybe()
	p.On("ValidateConfig").Return(configErr).Maybe()
	p.On("Descriptor").Return(voice.Descriptor{Name: name}).Maybe()
	return p
}

func names(providers []voice.Provider) []string {
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		out = append(out, p.Name())
	}
	return out
}

func TestCandidates_ResolutionOrder(t *testing.T) {
	alpha := newProvider(t, "alpha", nil)
	beta := newProvider(t, "beta", nil)
	gamma := newProvider(t, "gamma", nil)

	registry := voice.NewRegistry(
		[]voice.Provider{alpha, beta, gamma}, "beta", []string{"gamma"}, zap.NewNop())

	// Requested first, then default, then fallback, then registration order.
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names(registry.Candidates("alpha")))
	// No explicit request: default leads.
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, names(registry.Candidates("")))
	// Requesting the default does not duplicate it.
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, names(registry.Candidates("beta")))
}

func TestCandidates_SkipsMisconfiguredProviders(t *testing.T) {
	alpha := newProvider(t, "alpha", errors.New("missing api key"))
	beta := newProvider(t, "beta", errors.New("missing endpoint"))
	gamma := newProvider(t, "gamma", nil)

	registry := voice.NewRegistry(
		[]voice.Provider{alpha, beta, gamma}, "alpha", []string{"beta", "gamma"}, zap.NewNop())

	assert.Equal(t, []string{"gamma"}, names(registry.Candidates("")))
}

func TestCandidates_UnknownRequestedProviderIgnored(t *testing.T) {
	alpha := newProvider(t, "alpha", nil)

	registry := voice.NewRegistry([]voice.Provider{alpha}, "alpha", nil, zap.NewNop())

	assert.Equal(t, []string{"alpha"}, names(registry.Candidates("does-not-exist")))
}

func TestResolve(t *testing.T) {
	alpha := newProvider(t, "alpha", errors.New("broken"))
	beta := newProvider(t, "beta", nil)

	registry := voice.NewRegistry([]voice.Provider{alpha, beta}, "alpha", []string{"beta"}, zap.NewNop())

	resolved := registry.Resolve("")
	require.NotNil(t, resolved)
	assert.Equal(t, "beta", resolved.Name())
}

func TestResolve_NothingUsable(t *testing.T) {
	alpha := newProvider(t, "alpha", errors.New("broken"))

	registry := voice.NewRegistry([]voice.Provider{alpha}, "alpha", nil, zap.NewNop())
	assert.Nil(t, registry.Resolve(""))
}

func TestNewRegistry_DuplicateRegistrationIgnored(t *testing.T) {
	alpha := newProvider(t, "alpha", nil)
	alphaDup := newProvider(t, "alpha", nil)

	registry := voice.NewRegistry([]voice.Provider{alpha, alphaDup}, "alpha", nil, zap.NewNop())

	assert.Len(t, registry.Descriptors(), 1)
	assert.Len(t, registry.Candidates(""), 1)
}

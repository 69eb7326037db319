package voice

import (
	"go.uber.org/zap"
)

// Registry holds the configured speech providers, the default provider and
// the ordered fallback list. It is populated once at startup and read-only
// afterwards, so concurrent reads need no locking. It is an explicit
// constructed instance, never process-global state.
type Registry struct {
	providers   map[string]Provider
	order       []string // registration order, for the "any valid" tail
	defaultName string
	fallback    []string
	logger      *zap.Logger
}

// NewRegistry builds a registry from the given providers. defaultName
// names the provider tried when no explicit request is made; fallback is
// the ordered list tried after the default fails.
func NewRegistry(providers []Provider, defaultName string, fallback []string, logger *zap.Logger) *Registry {
	r := &Registry{
		providers:   make(map[string]Provider, len(providers)),
		defaultName: defaultName,
		fallback:    fallback,
		logger:      logger.Named("VoiceRegistry"),
	}
	for _, p := range providers {
		if _, dup := r.providers[p.Name()]; dup {
			r.logger.Warn("Duplicate voice provider registration ignored", zap.String("provider", p.Name()))
			continue
		}
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Resolve returns the first provider of the resolution order whose
// configuration validates, or nil when none does.
func (r *Registry) Resolve(requestedName string) Provider {
	candidates := r.Candidates(requestedName)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// Candidates returns every usable provider in resolution order:
// the explicitly requested provider first, then the default, then the
// fallback list, then any remaining registered provider. Each provider
// appears once and must pass ValidateConfig.
func (r *Registry) Candidates(requestedName string) []Provider {
	tried := make(map[string]bool, len(r.providers))
	result := make([]Provider, 0, len(r.providers))

	consider := func(name string) {
		if name == "" || tried[name] {
			return
		}
		tried[name] = true
		p, ok := r.providers[name]
		if !ok {
			r.logger.Debug("Voice provider not registered", zap.String("provider", name))
			return
		}
		if err := p.ValidateConfig(); err != nil {
			r.logger.Warn("Skipping misconfigured voice provider",
				zap.String("provider", name), zap.Error(err))
			return
		}
		result = append(result, p)
	}

	consider(requestedName)
	consider(r.defaultName)
	for _, name := range r.fallback {
		consider(name)
	}
	for _, name := range r.order {
		consider(name)
	}
	return result
}

// Descriptors lists the capability sheets of all registered providers,
// valid or not. Intended for diagnostics endpoints.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name].Descriptor())
	}
	return out
}

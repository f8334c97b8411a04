package translate

import (
	"context"
	"fmt"
)

// Provider is a single remote translation backend. Providers impose distinct
// maximum request sizes, so each publishes the chunk length it tolerates.
type Provider interface {
	Name() string
	TranslateChunk(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Retryable(err error) bool
	DefaultChunkSize() int
}

// Registry keeps a mapping from provider names to their implementations.
// Which provider handles a run is an external configuration decision, not a
// pipeline-internal heuristic.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(p Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[p.Name()] = p
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Provider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("translation provider %s is not registered", name)
}

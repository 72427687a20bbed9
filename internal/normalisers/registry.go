package normalisers

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Fallback is the MIME type wildcard declared by fallback normalisers.
const Fallback = "*"

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by MIME type.
// An exact MIME match always beats a fallback; ties are broken by priority,
// then by registration order.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, normaliser)
}

// SupportedMIMETypes returns all explicitly supported MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if t != Fallback && !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

// Normalise transforms raw using the best matching normaliser. Only the
// selected normaliser runs; its error is returned as is.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.selectFor(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

// selectFor returns the highest priority exact match, or the highest
// priority fallback when nothing matches exactly.
func (r *Registry) selectFor(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var exact, fallback driven.Normaliser
	for _, n := range r.normalisers {
		types := n.SupportedMIMETypes()
		if slices.Contains(types, mimeType) {
			if exact == nil || n.Priority() > exact.Priority() {
				exact = n
			}
		}
		if slices.Contains(types, Fallback) {
			if fallback == nil || n.Priority() > fallback.Priority() {
				fallback = n
			}
		}
	}

	if exact != nil {
		return exact
	}
	return fallback
}

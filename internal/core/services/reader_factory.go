package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure ReaderFactory implements the interface.
var _ driven.ReaderFactory = (*ReaderFactory)(nil)

// SettingsFunc resolves the settings used to build a reader.
type SettingsFunc func() (*domain.Settings, error)

// TokenProviderFunc returns the token provider for a reader type.
type TokenProviderFunc func(settings domain.Settings, readerType string) driven.TokenProvider

// ReaderFactory builds readers from registered builders.
// Settings are resolved on every Create so CLI overrides take effect.
type ReaderFactory struct {
	mu       sync.RWMutex
	builders map[string]driven.ReaderBuilder
	settings SettingsFunc
	tokens   TokenProviderFunc
}

// NewReaderFactory creates a reader factory.
func NewReaderFactory(settings SettingsFunc, tokens TokenProviderFunc) *ReaderFactory {
	return &ReaderFactory{
		builders: make(map[string]driven.ReaderBuilder),
		settings: settings,
		tokens:   tokens,
	}
}

// Register adds a reader builder for the given type.
func (f *ReaderFactory) Register(readerType string, builder driven.ReaderBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[readerType] = builder
}

// SupportedTypes returns all registered reader types, sorted.
func (f *ReaderFactory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Create builds a reader for the given type.
func (f *ReaderFactory) Create(ctx context.Context, readerType string) (driven.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	builder, ok := f.builders[readerType]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: reader %q", domain.ErrUnsupportedType, readerType)
	}

	settings := domain.DefaultSettings()
	if f.settings != nil {
		resolved, err := f.settings()
		if err != nil {
			return nil, fmt.Errorf("resolve settings: %w", err)
		}
		settings = *resolved
	}

	var tokens driven.TokenProvider
	if f.tokens != nil {
		tokens = f.tokens(settings, readerType)
	}

	reader, err := builder(settings, tokens)
	if err != nil {
		return nil, fmt.Errorf("create %s reader: %w", readerType, err)
	}
	return reader, nil
}

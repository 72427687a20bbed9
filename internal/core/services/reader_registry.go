package services

import (
	"github.com/custodia-labs/reporeader/internal/connectors/github"
	"github.com/custodia-labs/reporeader/internal/connectors/gitlab"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
)

// Ensure ReaderRegistry implements the interface.
var _ driving.ReaderRegistry = (*ReaderRegistry)(nil)

// ReaderRegistry provides information about available reader types.
type ReaderRegistry struct {
	readers map[string]domain.ReaderType
	order   []string
}

// NewReaderRegistry creates a new reader registry with built-in readers.
func NewReaderRegistry() *ReaderRegistry {
	r := &ReaderRegistry{
		readers: make(map[string]domain.ReaderType),
	}
	r.registerBuiltinReaders()
	return r
}

func (r *ReaderRegistry) registerBuiltinReaders() {
	r.register(domain.ReaderType{
		ID:   github.ReaderType,
		Name: github.ReaderName,
		Description: "Downloads text files from a GitHub repository. " +
			"PDF and EPUB files are included when an extraction service is configured.",
		LocationFormat: "{owner}/{repo}/{branch}/{folder}",
		TokenKey:       KeyGitHubToken,
		TokenEnv:       EnvGitHubToken,
	})
	r.register(domain.ReaderType{
		ID:   gitlab.ReaderType,
		Name: gitlab.ReaderName,
		Description: "Downloads text files from a GitLab project. " +
			"PDF files are included when an extraction service is configured.",
		LocationFormat: "{project}/{branch}/{folder}",
		TokenKey:       KeyGitLabToken,
		TokenEnv:       EnvGitLabToken,
	})
}

func (r *ReaderRegistry) register(rt domain.ReaderType) {
	if _, exists := r.readers[rt.ID]; !exists {
		r.order = append(r.order, rt.ID)
	}
	r.readers[rt.ID] = rt
}

// List returns all reader types in registration order.
func (r *ReaderRegistry) List() []domain.ReaderType {
	result := make([]domain.ReaderType, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.readers[id])
	}
	return result
}

// Get returns a reader type by ID.
func (r *ReaderRegistry) Get(id string) (domain.ReaderType, bool) {
	rt, ok := r.readers[id]
	return rt, ok
}

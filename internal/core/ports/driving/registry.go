package driving

import "github.com/custodia-labs/reporeader/internal/core/domain"

// ReaderRegistry provides information about available reader types.
type ReaderRegistry interface {
	// List returns all reader types in display order.
	List() []domain.ReaderType

	// Get returns a reader type by ID.
	Get(id string) (domain.ReaderType, bool)
}

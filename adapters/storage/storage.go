// Package storage provides the read interfaces the assembly engine
// consumes, with postgres, MinIO, and in-memory implementations. Exhibit
// records and document bytes are owned by this layer; the engine fetches
// fresh per assembly and never caches across requests.
package storage

import (
	"context"

	"agreement-engine/core/types"
)

// Catalog reads exhibit and tier metadata
type Catalog interface {
	// ListExhibits returns every exhibit record
	ListExhibits(ctx context.Context) ([]types.ExhibitRecord, error)

	// GetTier returns the pricing tier by plan name
	GetTier(ctx context.Context, planName string) (types.Tier, error)
}

// FileStore reads document bytes
type FileStore interface {
	// GetExhibitFile returns the bytes of one exhibit document
	GetExhibitFile(ctx context.Context, objectKey string) ([]byte, error)

	// GetTemplate returns the bytes of a base agreement template
	GetTemplate(ctx context.Context, name string) ([]byte, error)
}

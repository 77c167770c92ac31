package ports

import (
	"context"
)

// LabelStore persists label artifacts (the printable documents returned by
// carriers) outside the database.
type LabelStore interface {
	// Save stores the artifact under the given key and returns the path
	// that retrieves it later.
	Save(ctx context.Context, key string, data []byte) (string, error)

	// Fetch retrieves a previously saved artifact by its path.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Delete removes a stored artifact. Deleting a missing artifact is not
	// an error.
	Delete(ctx context.Context, path string) error
}

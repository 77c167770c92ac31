package ports

import (
	"context"
)

// TrackingCache is a short-lived cache of carrier tracking statuses, keyed
// by tracking number. A miss is not an error.
type TrackingCache interface {
	// Get returns the cached status and whether it was present.
	Get(ctx context.Context, trackingNumber string) (string, bool, error)

	// Set stores the status for the cache's configured lifetime.
	Set(ctx context.Context, trackingNumber string, status string) error
}

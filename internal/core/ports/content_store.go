package ports

import "context"

// ContentStore fetches immutable blobs addressed by a location-independent
// content identifier.
type ContentStore interface {
	Fetch(ctx context.Context, contentID string) ([]byte, error)
}

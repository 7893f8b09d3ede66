package ports

import "context"

// ContentIntegrityChecker downloads a content blob and recomputes its
// cryptographic digest. The digest covers the raw bytes, never the content
// identifier string.
type ContentIntegrityChecker interface {
	Digest(ctx context.Context, contentID string) (string, error)
}

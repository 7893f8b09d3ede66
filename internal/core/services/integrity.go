package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/log"
)

// ContentIntegrity downloads content blobs and recomputes their sha256
// digest. The digest always covers the downloaded bytes, never the content
// identifier.
type ContentIntegrity struct {
	store ports.ContentStore
}

// NewContentIntegrity creates a new instance of ContentIntegrity
func NewContentIntegrity(store ports.ContentStore) *ContentIntegrity {
	return &ContentIntegrity{store: store}
}

// Digest fetches the blob behind contentID and returns its lowercase hex
// sha256. The fetch gets one bounded retry; after that the error wraps
// ErrContentFetch so callers can report the check as unknown rather than
// failed.
func (s *ContentIntegrity) Digest(ctx context.Context, contentID string) (string, error) {
	raw, err := s.store.Fetch(ctx, contentID)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn(ctx, "content fetch failed, retrying", "err", err, "contentID", contentID)
		raw, err = s.store.Fetch(ctx, contentID)
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrContentFetch, err)
	}

	digest := sha256.Sum256(raw)
	return hex.EncodeToString(digest[:]), nil
}

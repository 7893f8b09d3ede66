package contentstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// IPFS fetches content blobs from an ipfs gateway. Identifiers can be a raw
// CID or an ipfs:// url.
type IPFS struct {
	sh      *shell.Shell
	timeout time.Duration
}

// NewIPFS returns a content store backed by the ipfs node at gatewayURL
func NewIPFS(gatewayURL string, fetchTimeout time.Duration) *IPFS {
	return &IPFS{
		sh:      shell.NewShell(gatewayURL),
		timeout: fetchTimeout,
	}
}

// Fetch downloads the raw bytes of the blob addressed by contentID
func (s *IPFS) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	cid, err := ipfsCID(contentID)
	if err != nil {
		return nil, err
	}

	_ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.sh.Request("cat", cid).Send(_ctx)
	if err != nil {
		return nil, fmt.Errorf("ipfs cat %s: %w", cid, err)
	}
	defer func() { _ = resp.Close() }()
	if resp.Error != nil {
		return nil, fmt.Errorf("ipfs cat %s: %w", cid, resp.Error)
	}

	return io.ReadAll(resp.Output)
}

// ipfsCID strips an optional ipfs:// scheme. CIDs are case sensitive, so the
// identifier is never run through a url parser.
func ipfsCID(contentID string) (string, error) {
	if cid, ok := strings.CutPrefix(contentID, "ipfs://"); ok {
		return cid, nil
	}
	if scheme, _, ok := strings.Cut(contentID, "://"); ok {
		return "", fmt.Errorf("unsupported content identifier scheme <%s>", scheme)
	}
	return contentID, nil
}

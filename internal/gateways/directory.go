package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/certiblock/verifier-node/internal/config"
	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/pkg/cache"
	client "github.com/certiblock/verifier-node/pkg/http"
)

// DirectoryClient resolves institution identity history and subject directory
// hits. Identity sets rotate rarely, so they are cached.
type DirectoryClient struct {
	baseURL string
	http    *client.Client
	cache   cache.Cache
	ttl     time.Duration
}

// NewDirectory returns a new directory gateway
func NewDirectory(cfg config.Directory, cachex cache.Cache) *DirectoryClient {
	return &DirectoryClient{
		baseURL: cfg.URL,
		http:    client.DefaultHTTPClientWithRetry,
		cache:   cachex,
		ttl:     cfg.IdentitySetTTL,
	}
}

type identitySetResponse struct {
	Identities []string `json:"identities"`
}

// IdentitySet returns every ledger identity the institution has ever used
func (c *DirectoryClient) IdentitySet(ctx context.Context, institution string) ([]string, error) {
	key := "directory-identity-set-" + strings.ToLower(institution)
	var cached []string
	if c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	body, err := c.http.Get(ctx, c.baseURL+"/v1/institutions/"+url.PathEscape(institution)+"/identities")
	if err != nil {
		return nil, fmt.Errorf("directory identity set: %w", err)
	}

	var resp identitySetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling identity set response: %w", err)
	}

	if err := c.cache.Set(ctx, key, resp.Identities, c.ttl); err != nil {
		log.Warn(ctx, "caching identity set", "err", err, "institution", institution)
	}
	return resp.Identities, nil
}

type subjectSearchResponse struct {
	Subjects []domain.DirectorySubject `json:"subjects"`
}

// SearchSubjects returns directory hits for the extracted document fields
func (c *DirectoryClient) SearchSubjects(ctx context.Context, query domain.ExtractedFields, limit int) ([]domain.DirectorySubject, error) {
	params := url.Values{}
	params.Set("name", query.SubjectName)
	params.Set("institution", query.Institution)
	if query.Program != "" {
		params.Set("program", query.Program)
	}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.http.Get(ctx, c.baseURL+"/v1/subjects/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("directory subject search: %w", err)
	}

	var resp subjectSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling subject search response: %w", err)
	}
	return resp.Subjects, nil
}

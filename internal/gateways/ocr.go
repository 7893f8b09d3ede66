package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/certiblock/verifier-node/internal/config"
	client "github.com/certiblock/verifier-node/pkg/http"
)

// OCRClient talks to the ocr capability backend. Extractions run for tens of
// seconds on large PDFs, so the http client gets a single retry and the
// configured long timeout.
type OCRClient struct {
	baseURL string
	http    *client.Client
}

// NewOCR returns a new ocr gateway
func NewOCR(cfg config.Ocr) *OCRClient {
	return &OCRClient{
		baseURL: cfg.URL,
		http:    client.NewRetryableClient(1, cfg.Timeout),
	}
}

type extractTextRequest struct {
	Document []byte `json:"document"`
	MimeType string `json:"mimeType"`
}

type extractTextResponse struct {
	Text string `json:"text"`
}

// ExtractText runs text recognition on the document bytes. PDFs are
// rasterized by the backend.
func (c *OCRClient) ExtractText(ctx context.Context, document []byte, mimeType string) (string, error) {
	payload, err := json.Marshal(extractTextRequest{Document: document, MimeType: mimeType})
	if err != nil {
		return "", fmt.Errorf("marshaling ocr request: %w", err)
	}

	body, err := c.http.Post(ctx, c.baseURL+"/v1/extract-text", payload)
	if err != nil {
		return "", mapCapabilityErr("ocr extract-text", err)
	}

	var resp extractTextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling ocr response: %w", err)
	}
	return resp.Text, nil
}

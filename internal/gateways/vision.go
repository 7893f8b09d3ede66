package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/certiblock/verifier-node/internal/config"
	"github.com/certiblock/verifier-node/internal/core/domain"
	client "github.com/certiblock/verifier-node/pkg/http"
)

// VisionClient talks to the AI vision capability backend
type VisionClient struct {
	baseURL string
	apiKey  string
	http    *client.Client
}

// NewVision returns a new vision gateway
func NewVision(cfg config.Vision) *VisionClient {
	return &VisionClient{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		http:    client.NewRetryableClient(1, cfg.Timeout),
	}
}

type classifyRequest struct {
	Document []byte `json:"document"`
	APIKey   string `json:"apiKey,omitempty"`
}

type classifyResponse struct {
	CredentialType string `json:"credentialType"`
}

// ClassifyType returns the credential type the model sees in the document
func (c *VisionClient) ClassifyType(ctx context.Context, document []byte) (string, error) {
	payload, err := json.Marshal(classifyRequest{Document: document, APIKey: c.apiKey})
	if err != nil {
		return "", fmt.Errorf("marshaling classify request: %w", err)
	}

	body, err := c.http.Post(ctx, c.baseURL+"/v1/classify", payload)
	if err != nil {
		return "", mapCapabilityErr("vision classify", err)
	}

	var resp classifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling classify response: %w", err)
	}
	return resp.CredentialType, nil
}

type extractFieldsResponse struct {
	Fields domain.ExtractedFields `json:"fields"`
}

// ExtractFields pulls the canonical credential fields out of the document
func (c *VisionClient) ExtractFields(ctx context.Context, document []byte) (domain.ExtractedFields, error) {
	payload, err := json.Marshal(classifyRequest{Document: document, APIKey: c.apiKey})
	if err != nil {
		return domain.ExtractedFields{}, fmt.Errorf("marshaling extract request: %w", err)
	}

	body, err := c.http.Post(ctx, c.baseURL+"/v1/extract-fields", payload)
	if err != nil {
		return domain.ExtractedFields{}, mapCapabilityErr("vision extract-fields", err)
	}

	var resp extractFieldsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ExtractedFields{}, fmt.Errorf("unmarshaling extract response: %w", err)
	}
	return resp.Fields, nil
}

type compareRequest struct {
	Original  []byte `json:"original"`
	Candidate []byte `json:"candidate"`
	HintType  string `json:"hintType,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
}

// CompareVisual runs the visual tamper analysis between the verified original
// and the candidate document.
func (c *VisionClient) CompareVisual(ctx context.Context, original, candidate []byte, hintType string) (*domain.VisualAnalysis, error) {
	payload, err := json.Marshal(compareRequest{Original: original, Candidate: candidate, HintType: hintType, APIKey: c.apiKey})
	if err != nil {
		return nil, fmt.Errorf("marshaling compare request: %w", err)
	}

	body, err := c.http.Post(ctx, c.baseURL+"/v1/compare", payload)
	if err != nil {
		return nil, mapCapabilityErr("vision compare", err)
	}

	var resp domain.VisualAnalysis
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling compare response: %w", err)
	}
	if resp.TamperSeverity == "" {
		resp.TamperSeverity = domain.SeverityNone
	}
	return &resp, nil
}

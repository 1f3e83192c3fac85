package identity

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPProvider calls a hosted identity-matching API. The endpoint receives
// the identity number and photo and responds with a confidence score.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type verifyPayload struct {
	IDNumber string `json:"id_number"`
	Photo    string `json:"photo"` // base64
}

type verifyResult struct {
	Confidence  float64                `json:"confidence"`
	ReferenceID string                 `json:"reference_id"`
	Metadata    map[string]interface{} `json:"metadata"`
}

func (p *HTTPProvider) Verify(ctx context.Context, request *VerifyRequest) (*VerifyResponse, error) {
	payload := verifyPayload{
		IDNumber: request.IDNumber,
		Photo:    base64.StdEncoding.EncodeToString(request.Photo),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/identity/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var result verifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return &VerifyResponse{
		Confidence:  result.Confidence,
		ReferenceID: result.ReferenceID,
		Metadata:    result.Metadata,
	}, nil
}

package identity

import "context"

// IdentityProvider matches a national identity number against a captured
// photo and returns a confidence score in [0,100].
type IdentityProvider interface {
	Verify(ctx context.Context, request *VerifyRequest) (*VerifyResponse, error)
}

type VerifyRequest struct {
	IDNumber string `json:"id_number"`
	Photo    []byte `json:"photo"`
}

type VerifyResponse struct {
	Confidence  float64                `json:"confidence"`
	ReferenceID string                 `json:"reference_id"`
	Metadata    map[string]interface{} `json:"metadata"`
}

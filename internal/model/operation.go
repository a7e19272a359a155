package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"
)

// GQLOperation is a named GraphQL operation recovered from the program.
type GQLOperation struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// AnalysisResult is the outcome of one analysis run. Operations keep
// discovery order and are not deduplicated.
type AnalysisResult struct {
	GQLOperations    []GQLOperation `json:"gqlOperations"`
	RawOAuthClientID string         `json:"rawOAuthClientId"`
}

// NewAnalysisResult copies ops so later changes to the caller's slice do not
// leak into the result.
func NewAnalysisResult(ops []GQLOperation, clientID string) *AnalysisResult {
	copied := make([]GQLOperation, len(ops))
	copy(copied, ops)
	return &AnalysisResult{
		GQLOperations:    copied,
		RawOAuthClientID: clientID,
	}
}

// MarshalIndent renders the result as pretty JSON with a trailing newline.
func (r *AnalysisResult) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return buf.Bytes(), nil
}

// Digest returns the xxh3 hash of the canonical JSON rendering. Equal results
// produce equal digests.
func (r *AnalysisResult) Digest() (string, error) {
	data, err := r.MarshalIndent()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnalysisResultJSONKeys(t *testing.T) {
	r := NewAnalysisResult([]GQLOperation{
		{ID: "abcdefabcdef", Name: "GetUser", Definition: "query GetUser{u}"},
	}, "client-123")

	data, err := r.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, key := range []string{"gqlOperations", "rawOAuthClientId"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Missing key %q in %s", key, data)
		}
	}
	if !strings.Contains(string(data), `"definition": "query GetUser{u}"`) {
		t.Errorf("Definition not rendered verbatim: %s", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("Expected trailing newline")
	}
}

func TestEmptyOperationsRenderAsArray(t *testing.T) {
	data, err := NewAnalysisResult(nil, "x").MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"gqlOperations": []`) {
		t.Errorf("Expected empty array, got %s", data)
	}
}

func TestNewAnalysisResultCopiesOperations(t *testing.T) {
	ops := []GQLOperation{{ID: "abcdefabcdef", Name: "A", Definition: "query A"}}
	r := NewAnalysisResult(ops, "x")
	ops[0].Name = "Changed"

	if r.GQLOperations[0].Name != "A" {
		t.Errorf("Result shares backing array with caller: %+v", r.GQLOperations[0])
	}
}

func TestDigestIsStable(t *testing.T) {
	build := func() *AnalysisResult {
		return NewAnalysisResult([]GQLOperation{
			{ID: "abcdefabcdef", Name: "GetUser", Definition: "query GetUser{u}"},
			{ID: "0123456789ab", Name: "SetUser", Definition: "mutation SetUser{u}"},
		}, "client")
	}

	d1, err := build().Digest()
	if err != nil {
		t.Fatal(err)
	}
	d2, _ := build().Digest()
	if d1 != d2 {
		t.Errorf("Digest differs for equal results: %s vs %s", d1, d2)
	}
	if len(d1) != 16 {
		t.Errorf("Digest length = %d, expected 16 hex chars", len(d1))
	}

	other := build()
	other.RawOAuthClientID = "different"
	d3, _ := other.Digest()
	if d3 == d1 {
		t.Error("Digest should change when the result changes")
	}
}

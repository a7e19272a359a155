package oauth

import (
	"errors"
	"reflect"
	"testing"

	"apk-recon/internal/xmlparser"
)

const key = "oauth_client_id"

func mustParse(t *testing.T, path, content string) *xmlparser.Document {
	t.Helper()
	doc, err := xmlparser.ParseXMLFile(content)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	doc.Path = path
	return doc
}

func TestCandidateIdioms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Candidate
	}{
		{
			name:    "attribute named after key",
			content: `<config><client oauth_client_id="abc123"/></config>`,
			want:    []Candidate{{AttributeName: key, AttributeValue: "abc123"}},
		},
		{
			name:    "name attribute with text child",
			content: `<resources><string name="oauth_client_id">ohXpoqrZYub1kg</string></resources>`,
			want:    []Candidate{{AttributeName: key, AttributeValue: "ohXpoqrZYub1kg"}},
		},
		{
			name:    "key as value of another attribute",
			content: `<map><entry xyz789="oauth_client_id"/></map>`,
			want:    []Candidate{{AttributeName: key, AttributeValue: "xyz789"}},
		},
		{
			name:    "name attribute without content",
			content: `<resources><string name="oauth_client_id"/></resources>`,
			want:    nil,
		},
		{
			name:    "no key",
			content: `<resources><string name="app_name">Reddit</string></resources>`,
			want:    nil,
		},
	}

	s := NewScanner(key)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Candidates(mustParse(t, tt.name, tt.content))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates = %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestCandidatesBreadthFirstOrder(t *testing.T) {
	// the deep match is declared first but sits one level lower
	content := `<root>
  <a><deep oauth_client_id="deep"/></a>
  <b oauth_client_id="shallow"/>
</root>`

	got := NewScanner(key).Candidates(mustParse(t, "bfs.xml", content))
	if len(got) != 2 || got[0].AttributeValue != "shallow" || got[1].AttributeValue != "deep" {
		t.Errorf("Expected breadth-first order [shallow deep], got %+v", got)
	}
}

func TestCandidatesAttributeOrder(t *testing.T) {
	content := `<r><e first="oauth_client_id" oauth_client_id="second"/></r>`

	got := NewScanner(key).Candidates(mustParse(t, "attrs.xml", content))
	want := []Candidate{
		{AttributeName: key, AttributeValue: "first"},
		{AttributeName: key, AttributeValue: "second"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates = %+v, expected %+v", got, want)
	}
}

func TestScanFirstDocumentWins(t *testing.T) {
	docs := []*xmlparser.Document{
		mustParse(t, "layout.xml", `<LinearLayout/>`),
		mustParse(t, "strings.xml", `<resources><string name="oauth_client_id">X</string></resources>`),
		mustParse(t, "other.xml", `<resources><string name="oauth_client_id">Y</string></resources>`),
	}

	value, distinct, err := NewScanner(key).ScanAll(docs)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if value != "X" {
		t.Errorf("Expected X, got %s", value)
	}
	if distinct != 2 {
		t.Errorf("Expected 2 distinct values, got %d", distinct)
	}
}

func TestScanNotFound(t *testing.T) {
	tests := []struct {
		name string
		docs []*xmlparser.Document
	}{
		{"zero documents", nil},
		{"no match", []*xmlparser.Document{mustParse(t, "a.xml", `<a b="c"/>`)}},
		{"nil document", []*xmlparser.Document{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(key).Scan(tt.docs)
			if !errors.Is(err, ErrClientIDNotFound) {
				t.Errorf("Expected ErrClientIDNotFound, got %v", err)
			}
		})
	}
}

func TestScanCustomKey(t *testing.T) {
	docs := []*xmlparser.Document{
		mustParse(t, "strings.xml", `<resources><string name="client_key">K</string></resources>`),
	}
	value, err := NewScanner("client_key").Scan(docs)
	if err != nil || value != "K" {
		t.Errorf("Scan = %q, %v", value, err)
	}
}

// Package oauth finds the raw OAuth client id published in the decoded XML
// resources of an application.
package oauth

import (
	"errors"

	"apk-recon/internal/logger"
	"apk-recon/internal/xmlparser"
)

// ErrClientIDNotFound is returned when no document carries the key.
var ErrClientIDNotFound = errors.New("failed to find raw OAuth client ID")

// Candidate is an attribute pair that carries the client id in Value.
type Candidate struct {
	AttributeName  string
	AttributeValue string
}

// Scanner walks element trees looking for the well-known key.
type Scanner struct {
	Key string
}

// NewScanner returns a Scanner for key.
func NewScanner(key string) *Scanner {
	return &Scanner{Key: key}
}

// Candidates lists the matches in one document, breadth first. A node's
// children are queued before its own attributes are read, and attributes
// are read in declaration order.
func (s *Scanner) Candidates(doc *xmlparser.Document) []Candidate {
	if doc == nil || doc.Root == nil {
		return nil
	}

	var out []Candidate
	queue := []*xmlparser.Node{doc.Root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		queue = append(queue, node.Children...)

		for _, attr := range node.Attrs {
			if c, ok := s.match(node, attr); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (s *Scanner) match(node *xmlparser.Node, attr xmlparser.Attr) (Candidate, bool) {
	switch {
	case attr.Name == s.Key:
		// <client oauth_client_id="..."/>
		return Candidate{AttributeName: attr.Name, AttributeValue: attr.Value}, true

	case attr.Value == s.Key && attr.Name == "name":
		// <string name="oauth_client_id">...</string>
		first := node.FirstChild()
		if first == nil {
			logger.Debug("Element <%s name=%q> has no content", node.Name, s.Key)
			return Candidate{}, false
		}
		return Candidate{AttributeName: attr.Value, AttributeValue: first.TextContent()}, true

	case attr.Value == s.Key:
		// <entry value_attr="oauth_client_id" .../>: the attribute name holds the id
		return Candidate{AttributeName: attr.Value, AttributeValue: attr.Name}, true
	}
	return Candidate{}, false
}

// Scan returns the first candidate value over docs in order. The remaining
// documents are still walked so that conflicting values can be reported,
// but they never change the answer.
func (s *Scanner) Scan(docs []*xmlparser.Document) (string, error) {
	value, _, err := s.ScanAll(docs)
	return value, err
}

// ScanAll is Scan that also returns the number of distinct values seen.
func (s *Scanner) ScanAll(docs []*xmlparser.Document) (string, int, error) {
	var (
		first    *Candidate
		distinct = make(map[string]struct{})
	)

	for _, doc := range docs {
		for _, c := range s.Candidates(doc) {
			if first == nil {
				c := c
				first = &c
				logger.Debug("OAuth client id found in %s", docPath(doc))
			}
			distinct[c.AttributeValue] = struct{}{}
		}
	}

	if first == nil {
		return "", 0, ErrClientIDNotFound
	}
	if len(distinct) > 1 {
		logger.Warn("Found %d distinct values for %s, using the first one", len(distinct), s.Key)
	}
	return first.AttributeValue, len(distinct), nil
}

func docPath(doc *xmlparser.Document) string {
	if doc.Path == "" {
		return "<memory>"
	}
	return doc.Path
}

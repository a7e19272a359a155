package xmlparser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// NodeKind tells element, text and comment nodes apart.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

// Attr is an attribute with its qualified name ("android:name").
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a decoded XML tree. Attributes keep declaration order
// and children keep document order.
type Node struct {
	Kind     NodeKind
	Name     string // element name; empty for text and comments
	Data     string // text or comment content
	Attrs    []Attr
	Children []*Node
	Parent   *Node
}

// Document is a parsed XML resource.
type Document struct {
	Path string
	Root *Node
}

// ErrNoRoot is returned for input without a root element.
var ErrNoRoot = errors.New("document has no root element")

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// TextContent concatenates the text of n and all its descendants, like the
// DOM property of the same name. Comments inside elements are skipped.
func (n *Node) TextContent() string {
	switch n.Kind {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	for _, c := range n.Children {
		switch c.Kind {
		case TextNode:
			sb.WriteString(c.Data)
		case ElementNode:
			c.appendText(sb)
		}
	}
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ParseXMLFile parses decoded XML text into a Document.
func ParseXMLFile(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

// ParseBytes parses decoded XML bytes into a Document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads one XML document. Namespace prefixes are kept as written and
// xmlns declarations stay ordinary attributes. Adjacent text runs (CDATA
// included) are merged into one text node.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
	)

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: qualified(t.Name)}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse XML: multiple root elements (%s)", n.Name)
				}
				root = n
			} else {
				appendChild(stack[len(stack)-1], n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 || stack[len(stack)-1].Name != name {
				return nil, fmt.Errorf("failed to parse XML: unexpected end element </%s>", name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if last := lastChild(parent); last != nil && last.Kind == TextNode {
				last.Data += string(t)
				continue
			}
			appendChild(parent, &Node{Kind: TextNode, Data: string(t)})

		case xml.Comment:
			if len(stack) == 0 {
				continue
			}
			appendChild(stack[len(stack)-1], &Node{Kind: CommentNode, Data: string(t)})
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("failed to parse XML: unclosed element <%s>", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	return &Document{Root: root}, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func appendChild(parent, child *Node) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

func lastChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// charsetReader handles XML declarations with a non UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported XML encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported XML encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Package javaparser reads decompiled Java sources with a tree-sitter
// grammar and keeps what the program model needs: declarations, field
// initializers, constructor calls and the string constants a body loads.
package javaparser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// ErrSyntax marks a file that parsed with errors. The classes returned along
// with it are still usable.
var ErrSyntax = errors.New("java syntax error")

// Argument kinds.
const (
	KindString  = "string"
	KindInt     = "int"
	KindLong    = "long"
	KindFloat   = "float"
	KindDouble  = "double"
	KindBoolean = "boolean"
	KindChar    = "char"
	KindNull    = "null"
	KindOther   = "other"
)

// Op kinds of a flattened method body.
const (
	OpConstString = "const-string"
	OpInvoke      = "invoke"
	OpNew         = "new"
	OpAssign      = "assign"
	OpReturn      = "return"
)

// Argument is one argument expression of a call.
type Argument struct {
	Kind  string // see Kind constants
	Text  string // source text; for strings the escaped text between the quotes
	Value string // unescaped value of a string literal
}

// Creation is a `new T(args)` expression.
type Creation struct {
	Type string
	Args []Argument
}

// Field represents a class field
type Field struct {
	Name   string
	Type   string
	Static bool
	Final  bool
	Init   *Creation // set when initialised with `new T(...)`
}

// Param is one formal parameter.
type Param struct {
	Name string
	Type string
}

// Op is one step of a flattened method body in evaluation order.
type Op struct {
	Kind  string
	Value string
}

// Method represents a method, constructor or static initializer.
type Method struct {
	Name        string // "<init>" for constructors, "<clinit>" for static blocks
	Constructor bool
	Static      bool
	Params      []Param
	Body        []Op
	Creations   []Creation
}

// Assignment is `Target = new T(...)` inside a static initializer.
type Assignment struct {
	Target   string
	Creation Creation
}

// JavaClass represents a parsed class, interface or enum.
type JavaClass struct {
	Package string
	Name    string   // simple name
	Outer   []string // enclosing class names, outermost first
	Imports []string

	Fields            []Field
	Methods           []Method
	StaticAssignments []Assignment
}

// FullName returns the dotted fully qualified name.
func (c *JavaClass) FullName() string {
	parts := make([]string, 0, len(c.Outer)+2)
	if c.Package != "" {
		parts = append(parts, c.Package)
	}
	parts = append(parts, c.Outer...)
	parts = append(parts, c.Name)
	return strings.Join(parts, ".")
}

// ParseJavaFile parses one source file and returns every class declared in
// it, nested classes included, outer classes first.
func ParseJavaFile(content string) ([]*JavaClass, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(context.Background(), []byte(content))
}

// Parser wraps a tree-sitter parser. It is not safe for concurrent use.
type Parser struct {
	ts *sitter.Parser
}

// NewParser returns a Java parser.
func NewParser() *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(java.GetLanguage())
	return &Parser{ts: ts}
}

// Close releases the tree-sitter parser.
func (p *Parser) Close() {
	p.ts.Close()
}

// Parse parses source.
func (p *Parser) Parse(ctx context.Context, source []byte) ([]*JavaClass, error) {
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse java source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	fw := &fileWalker{src: source}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			fw.pkg = declName(child, source)
		case "import_declaration":
			fw.imports = append(fw.imports, importName(child, source))
		case "class_declaration", "interface_declaration", "enum_declaration":
			fw.typeDecl(child, nil)
		}
	}

	if root.HasError() {
		return fw.classes, fmt.Errorf("%w at %s", ErrSyntax, firstErrorPos(root))
	}
	return fw.classes, nil
}

type fileWalker struct {
	src     []byte
	pkg     string
	imports []string
	classes []*JavaClass
}

func (fw *fileWalker) text(n *sitter.Node) string {
	return string(fw.src[n.StartByte():n.EndByte()])
}

func (fw *fileWalker) typeDecl(n *sitter.Node, outer []string) {
	nameNode := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return
	}

	cls := &JavaClass{
		Package: fw.pkg,
		Name:    fw.text(nameNode),
		Outer:   append([]string(nil), outer...),
		Imports: fw.imports,
	}
	fw.classes = append(fw.classes, cls)

	isInterface := n.Type() == "interface_declaration"
	inner := append(append([]string(nil), outer...), cls.Name)

	for _, member := range members(body) {
		switch member.Type() {
		case "field_declaration", "constant_declaration":
			fw.fields(cls, member, isInterface)
		case "constructor_declaration":
			fw.method(cls, member, true)
		case "method_declaration":
			fw.method(cls, member, false)
		case "static_initializer":
			fw.staticInit(cls, member)
		case "class_declaration", "interface_declaration", "enum_declaration":
			fw.typeDecl(member, inner)
		}
	}
}

// members returns the member declarations of a class, interface or enum
// body.
func members(body *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "enum_body_declarations" {
			out = append(out, members(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func (fw *fileWalker) fields(cls *JavaClass, n *sitter.Node, implicitConst bool) {
	static, final := modifierFlags(n)
	if implicitConst {
		static, final = true, true
	}
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	typ := normalizeType(fw.text(typeNode))

	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		if name == nil {
			continue
		}
		f := Field{
			Name:   fw.text(name),
			Type:   typ + dimensions(decl, fw),
			Static: static,
			Final:  final,
		}
		if value := decl.ChildByFieldName("value"); value != nil && value.Type() == "object_creation_expression" {
			c := fw.creation(value)
			f.Init = &c
		}
		cls.Fields = append(cls.Fields, f)
	}
}

func (fw *fileWalker) method(cls *JavaClass, n *sitter.Node, ctor bool) {
	static, _ := modifierFlags(n)
	m := Method{Constructor: ctor, Static: static}
	if ctor {
		m.Name = "<init>"
	} else if name := n.ChildByFieldName("name"); name != nil {
		m.Name = fw.text(name)
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "formal_parameter":
				m.Params = append(m.Params, fw.param(p, false))
			case "spread_parameter":
				m.Params = append(m.Params, fw.param(p, true))
			}
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		b := &bodyWalker{fw: fw}
		b.walk(body)
		m.Body = b.ops
		m.Creations = b.creations
	}
	cls.Methods = append(cls.Methods, m)
}

func (fw *fileWalker) param(p *sitter.Node, variadic bool) Param {
	var out Param
	if name := p.ChildByFieldName("name"); name != nil {
		out.Name = fw.text(name)
	}
	if typ := p.ChildByFieldName("type"); typ != nil {
		out.Type = normalizeType(fw.text(typ))
	} else {
		// spread_parameter keeps its type as a plain child
		for i := 0; i < int(p.NamedChildCount()); i++ {
			c := p.NamedChild(i)
			if strings.HasSuffix(c.Type(), "type") || strings.HasSuffix(c.Type(), "type_identifier") {
				out.Type = normalizeType(fw.text(c))
				break
			}
		}
		if out.Name == "" {
			if vd := lastNamed(p, "variable_declarator"); vd != nil {
				if name := vd.ChildByFieldName("name"); name != nil {
					out.Name = fw.text(name)
				}
			}
		}
	}
	if variadic {
		out.Type += "[]"
	}
	return out
}

func (fw *fileWalker) staticInit(cls *JavaClass, n *sitter.Node) {
	m := Method{Name: "<clinit>", Static: true}
	b := &bodyWalker{fw: fw, assignments: &cls.StaticAssignments}
	b.walk(n)
	m.Body = b.ops
	m.Creations = b.creations
	cls.Methods = append(cls.Methods, m)
}

func (fw *fileWalker) creation(n *sitter.Node) Creation {
	var c Creation
	if typ := n.ChildByFieldName("type"); typ != nil {
		c.Type = normalizeType(fw.text(typ))
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			c.Args = append(c.Args, fw.argument(args.NamedChild(i)))
		}
	}
	return c
}

func (fw *fileWalker) argument(n *sitter.Node) Argument {
	text := fw.text(n)
	switch n.Type() {
	case "string_literal", "text_block":
		raw := stripQuotes(text)
		return Argument{Kind: KindString, Text: raw, Value: unescape(raw)}
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l") {
			return Argument{Kind: KindLong, Text: text}
		}
		return Argument{Kind: KindInt, Text: text}
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			return Argument{Kind: KindFloat, Text: text}
		}
		return Argument{Kind: KindDouble, Text: text}
	case "true", "false":
		return Argument{Kind: KindBoolean, Text: text}
	case "character_literal":
		return Argument{Kind: KindChar, Text: text}
	case "null_literal":
		return Argument{Kind: KindNull, Text: text}
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return fw.argument(n.NamedChild(0))
		}
	}
	return Argument{Kind: KindOther, Text: text}
}

// bodyWalker flattens a body into ops in evaluation order.
type bodyWalker struct {
	fw          *fileWalker
	ops         []Op
	creations   []Creation
	assignments *[]Assignment
}

func (b *bodyWalker) emit(kind, value string) {
	b.ops = append(b.ops, Op{Kind: kind, Value: value})
}

func (b *bodyWalker) walk(n *sitter.Node) {
	switch n.Type() {
	case "string_literal", "text_block":
		b.emit(OpConstString, unescape(stripQuotes(b.fw.text(n))))
		return

	case "class_body":
		// anonymous and local class bodies are separate methods
		return

	case "object_creation_expression":
		b.children(n)
		c := b.fw.creation(n)
		b.creations = append(b.creations, c)
		b.emit(OpNew, c.Type)
		return

	case "method_invocation":
		b.children(n)
		name := ""
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = b.fw.text(nn)
		}
		b.emit(OpInvoke, name)
		return

	case "explicit_constructor_invocation":
		b.children(n)
		b.emit(OpInvoke, "<init>")
		return

	case "assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if right != nil {
			b.walk(right)
		}
		target := ""
		if left != nil {
			target = b.fw.text(left)
		}
		if b.assignments != nil && right != nil && right.Type() == "object_creation_expression" {
			*b.assignments = append(*b.assignments, Assignment{
				Target:   assignedField(target),
				Creation: b.fw.creation(right),
			})
		}
		b.emit(OpAssign, target)
		return

	case "return_statement":
		b.children(n)
		b.emit(OpReturn, "")
		return
	}

	b.children(n)
}

func (b *bodyWalker) children(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.walk(n.NamedChild(i))
	}
}

// assignedField reduces "this.a", "Outer.a" or "a" to "a".
func assignedField(target string) string {
	if i := strings.LastIndex(target, "."); i >= 0 {
		return target[i+1:]
	}
	return target
}

func modifierFlags(n *sitter.Node) (static, final bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		mods := n.NamedChild(i)
		if mods.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(mods.ChildCount()); j++ {
			switch mods.Child(j).Type() {
			case "static":
				static = true
			case "final":
				final = true
			}
		}
	}
	return static, final
}

func declName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return string(src[c.StartByte():c.EndByte()])
		}
	}
	return ""
}

func importName(n *sitter.Node, src []byte) string {
	text := string(src[n.StartByte():n.EndByte()])
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "static ")
	return strings.Join(strings.Fields(text), "")
}

func dimensions(decl *sitter.Node, fw *fileWalker) string {
	if d := decl.ChildByFieldName("dimensions"); d != nil {
		return strings.Join(strings.Fields(fw.text(d)), "")
	}
	return ""
}

func lastNamed(n *sitter.Node, typ string) *sitter.Node {
	var out *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			out = c
		}
	}
	return out
}

func firstErrorPos(n *sitter.Node) string {
	if n.Type() == "ERROR" || n.IsMissing() {
		p := n.StartPoint()
		return fmt.Sprintf("line %d, column %d", p.Row+1, p.Column+1)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() {
			return firstErrorPos(c)
		}
	}
	return "unknown position"
}

// normalizeType drops generic arguments and whitespace from a type as
// written.
func normalizeType(t string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range t {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0:
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func stripQuotes(s string) string {
	if strings.HasPrefix(s, `"""`) && strings.HasSuffix(s, `"""`) && len(s) >= 6 {
		return strings.TrimPrefix(s[3:len(s)-3], "\n")
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// unescape resolves Java escape sequences, keeping the raw text when it
// cannot be decoded.
func unescape(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	v, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		return raw
	}
	return v
}

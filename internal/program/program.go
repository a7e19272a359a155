// Package program is the read-only view of a decompiled application that the
// extraction heuristics query: classes, their fields and methods, the places
// a method is used from, and the instructions of a method body.
package program

import "errors"

const (
	// StringType is the fully qualified name of the Java string class.
	StringType = "java.lang.String"

	// StaticInitName is the method name of a class static initializer.
	StaticInitName = "<clinit>"

	// ConstructorName is the method name of an instance constructor.
	ConstructorName = "<init>"
)

// ErrIncompatibleModel reports that the decompiler output does not have the
// shape this tool understands, usually because of a version mismatch.
var ErrIncompatibleModel = errors.New("incompatible program model")

// Model exposes every class of the decompiled program.
type Model interface {
	Classes() []Class
}

// Class is one decompiled class.
type Class interface {
	Name() string // fully qualified
	Fields() []Field
	Methods() []Method
}

// Field is a declared field. InitArgs returns the operands of the
// instruction that initialises the field, when the decompiler attached one.
type Field interface {
	Name() string
	Type() string
	IsFinal() bool
	InitArgs() ([]Operand, bool)
}

// Method is a method or constructor.
type Method interface {
	Name() string
	DeclaringClass() Class
	IsConstructor() bool
	Parameters() []string // parameter type names in declaration order
	UsedAt() []UsageSite  // distinct methods that reference this one
	Instructions() []Instruction
}

// UsageSite is a method that references another method.
type UsageSite interface {
	Owner() Class
	Method() string
	IsStaticInit() bool
}

// Operand is an instruction argument.
type Operand struct {
	Type string `yaml:"type" json:"type"`
	Text string `yaml:"text" json:"text"`
}

// String renders the operand the way the decompiler prints it.
func (o Operand) String() string { return o.Text }

// IsString reports whether the operand is string typed.
func (o Operand) IsString() bool { return o.Type == StringType }

// Literal wrapper the decompiler prints around a string constant operand.
const (
	LiteralPrefix = `("`
	LiteralSuffix = `")`
)

// StringOperand returns the operand for a string constant, rendered with the
// literal wrapper.
func StringOperand(value string) Operand {
	return Operand{Type: StringType, Text: LiteralPrefix + value + LiteralSuffix}
}

// Opcodes the source model emits.
const (
	OpConstString = "const-string"
	OpInvoke      = "invoke"
	OpNew         = "new-instance"
	OpStore       = "put"
	OpReturn      = "return"
	OpOther       = "other"
)

// Instruction is one decoded instruction of a method body.
type Instruction struct {
	Op    string `yaml:"op" json:"op"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// ConstString returns the literal a const-string instruction loads.
func (i Instruction) ConstString() (string, bool) {
	if i.Op != OpConstString {
		return "", false
	}
	return i.Value, true
}

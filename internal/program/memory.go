package program

// Memory is an in-memory Model. Classes keep insertion order.
type Memory struct {
	classes []*ClassNode
	index   map[string]*ClassNode
}

// NewMemory returns an empty model.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]*ClassNode)}
}

// AddClass returns the class with the given name, creating it if needed.
func (m *Memory) AddClass(name string) *ClassNode {
	if c, ok := m.index[name]; ok {
		return c
	}
	c := &ClassNode{name: name}
	m.classes = append(m.classes, c)
	m.index[name] = c
	return c
}

// Class looks a class up by fully qualified name.
func (m *Memory) Class(name string) (*ClassNode, bool) {
	c, ok := m.index[name]
	return c, ok
}

// Len returns the number of classes.
func (m *Memory) Len() int { return len(m.classes) }

// Classes implements Model.
func (m *Memory) Classes() []Class {
	out := make([]Class, len(m.classes))
	for i, c := range m.classes {
		out[i] = c
	}
	return out
}

// ClassNode is a Class held by Memory.
type ClassNode struct {
	name    string
	fields  []*FieldNode
	methods []*MethodNode
}

func (c *ClassNode) Name() string { return c.name }

func (c *ClassNode) Fields() []Field {
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = f
	}
	return out
}

func (c *ClassNode) Methods() []Method {
	out := make([]Method, len(c.methods))
	for i, m := range c.methods {
		out[i] = m
	}
	return out
}

// AddField declares a field.
func (c *ClassNode) AddField(name, typ string, final bool) *FieldNode {
	f := &FieldNode{name: name, typ: typ, final: final}
	c.fields = append(c.fields, f)
	return f
}

// Field looks a field up by name.
func (c *ClassNode) Field(name string) (*FieldNode, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// AddConstructor declares a constructor with the given parameter types.
func (c *ClassNode) AddConstructor(params ...string) *MethodNode {
	return c.addMethod(ConstructorName, true, params)
}

// AddMethod declares a regular method.
func (c *ClassNode) AddMethod(name string, params ...string) *MethodNode {
	return c.addMethod(name, false, params)
}

func (c *ClassNode) addMethod(name string, ctor bool, params []string) *MethodNode {
	m := &MethodNode{class: c, name: name, ctor: ctor, params: append([]string(nil), params...)}
	c.methods = append(c.methods, m)
	return m
}

// Constructors returns the declared constructors in order.
func (c *ClassNode) Constructors() []*MethodNode {
	var out []*MethodNode
	for _, m := range c.methods {
		if m.ctor {
			out = append(out, m)
		}
	}
	return out
}

// FieldNode is a Field held by Memory.
type FieldNode struct {
	name    string
	typ     string
	final   bool
	init    []Operand
	hasInit bool
}

func (f *FieldNode) Name() string  { return f.name }
func (f *FieldNode) Type() string  { return f.typ }
func (f *FieldNode) IsFinal() bool { return f.final }

func (f *FieldNode) InitArgs() ([]Operand, bool) {
	if !f.hasInit {
		return nil, false
	}
	return f.init, true
}

// HasInit reports whether an initializer was attached.
func (f *FieldNode) HasInit() bool { return f.hasInit }

// SetInit attaches the initializer operands of the field.
func (f *FieldNode) SetInit(args ...Operand) *FieldNode {
	f.init = append([]Operand{}, args...)
	f.hasInit = true
	return f
}

// MethodNode is a Method held by Memory.
type MethodNode struct {
	class  *ClassNode
	name   string
	ctor   bool
	params []string
	uses   []*usage
	insns  []Instruction
}

func (m *MethodNode) Name() string                { return m.name }
func (m *MethodNode) DeclaringClass() Class       { return m.class }
func (m *MethodNode) IsConstructor() bool         { return m.ctor }
func (m *MethodNode) Parameters() []string        { return m.params }
func (m *MethodNode) Instructions() []Instruction { return m.insns }

func (m *MethodNode) UsedAt() []UsageSite {
	out := make([]UsageSite, len(m.uses))
	for i, u := range m.uses {
		out[i] = u
	}
	return out
}

// AddUse records that method of owner references m. Each (owner, method)
// pair is recorded once.
func (m *MethodNode) AddUse(owner *ClassNode, method string) *MethodNode {
	for _, u := range m.uses {
		if u.owner == owner && u.method == method {
			return m
		}
	}
	m.uses = append(m.uses, &usage{owner: owner, method: method})
	return m
}

// SetInstructions replaces the body of m.
func (m *MethodNode) SetInstructions(insns ...Instruction) *MethodNode {
	m.insns = append([]Instruction{}, insns...)
	return m
}

type usage struct {
	owner  *ClassNode
	method string
}

func (u *usage) Owner() Class       { return u.owner }
func (u *usage) Method() string     { return u.method }
func (u *usage) IsStaticInit() bool { return u.method == StaticInitName }

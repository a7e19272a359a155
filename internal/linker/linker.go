package linker

import (
	"apk-recon/internal/javaparser"
	"apk-recon/internal/logger"
	"apk-recon/internal/program"
)

// Linker turns the parsed classes of a pool into a program model: it
// resolves type names, attaches field initializers and records which
// methods construct which classes.
type Linker struct {
	pool *ComponentPool
	mem  *program.Memory

	// parsed method -> model method, per class
	methods map[*javaparser.JavaClass][]*program.MethodNode
}

// NewLinker creates a linker over pool.
func NewLinker(pool *ComponentPool) *Linker {
	return &Linker{
		pool:    pool,
		mem:     program.NewMemory(),
		methods: make(map[*javaparser.JavaClass][]*program.MethodNode),
	}
}

// BuildModel declares every class, then links usages. The returned model
// keeps the pool's class order.
func (l *Linker) BuildModel() *program.Memory {
	classes := l.pool.Classes()

	for _, jc := range classes {
		l.mem.AddClass(jc.FullName())
	}
	for _, jc := range classes {
		l.declare(jc)
	}
	for _, jc := range classes {
		l.link(jc)
	}

	return l.mem
}

func (l *Linker) declare(jc *javaparser.JavaClass) {
	cls, _ := l.mem.Class(jc.FullName())

	for _, f := range jc.Fields {
		cls.AddField(f.Name, l.pool.ResolveType(jc, f.Type), f.Final)
	}

	nodes := make([]*program.MethodNode, len(jc.Methods))
	for i, m := range jc.Methods {
		params := make([]string, len(m.Params))
		for j, p := range m.Params {
			params[j] = l.pool.ResolveType(jc, p.Type)
		}

		var node *program.MethodNode
		if m.Constructor {
			node = cls.AddConstructor(params...)
		} else {
			node = cls.AddMethod(m.Name, params...)
		}
		node.SetInstructions(instructions(m.Body)...)
		nodes[i] = node
	}
	l.methods[jc] = nodes
}

func (l *Linker) link(jc *javaparser.JavaClass) {
	owner, _ := l.mem.Class(jc.FullName())

	for _, f := range jc.Fields {
		if f.Init == nil {
			continue
		}
		field, _ := owner.Field(f.Name)
		field.SetInit(operands(f.Init.Args)...)

		site := program.ConstructorName
		if f.Static {
			site = program.StaticInitName
		}
		l.use(jc, owner, site, *f.Init)
	}

	for _, a := range jc.StaticAssignments {
		field, ok := owner.Field(a.Target)
		if !ok || field.HasInit() {
			continue
		}
		field.SetInit(operands(a.Creation.Args)...)
	}

	for i, m := range jc.Methods {
		site := l.methods[jc][i].Name()
		for _, c := range m.Creations {
			l.use(jc, owner, site, c)
		}
	}
}

// use records that method site of owner calls the constructor of c.
func (l *Linker) use(jc *javaparser.JavaClass, owner *program.ClassNode, site string, c javaparser.Creation) {
	target, ok := l.mem.Class(l.pool.ResolveType(jc, c.Type))
	if !ok {
		return
	}
	ctor := pickConstructor(target, c.Args)
	if ctor == nil {
		logger.Debug("No constructor of %s takes %d arguments (used in %s.%s)",
			target.Name(), len(c.Args), owner.Name(), site)
		return
	}
	ctor.AddUse(owner, site)
}

// pickConstructor chooses the overload a call with args binds to: same
// arity, and string literals only where a string is accepted. Without a
// compatible overload the first one of the right arity is used.
func pickConstructor(cls *program.ClassNode, args []javaparser.Argument) *program.MethodNode {
	var fallback *program.MethodNode
	for _, ctor := range cls.Constructors() {
		params := ctor.Parameters()
		if len(params) != len(args) {
			continue
		}
		if fallback == nil {
			fallback = ctor
		}
		if compatible(params, args) {
			return ctor
		}
	}
	return fallback
}

func compatible(params []string, args []javaparser.Argument) bool {
	for i, a := range args {
		isString := params[i] == program.StringType
		switch a.Kind {
		case javaparser.KindString:
			if !isString && params[i] != "java.lang.Object" && params[i] != "java.lang.CharSequence" {
				return false
			}
		case javaparser.KindInt, javaparser.KindLong, javaparser.KindFloat,
			javaparser.KindDouble, javaparser.KindBoolean, javaparser.KindChar:
			if isString {
				return false
			}
		}
	}
	return true
}

var argTypes = map[string]string{
	javaparser.KindString:  program.StringType,
	javaparser.KindInt:     "int",
	javaparser.KindLong:    "long",
	javaparser.KindFloat:   "float",
	javaparser.KindDouble:  "double",
	javaparser.KindBoolean: "boolean",
	javaparser.KindChar:    "char",
	javaparser.KindNull:    "null",
}

func operands(args []javaparser.Argument) []program.Operand {
	out := make([]program.Operand, len(args))
	for i, a := range args {
		if a.Kind == javaparser.KindString {
			out[i] = program.StringOperand(a.Text)
			continue
		}
		out[i] = program.Operand{Type: argTypes[a.Kind], Text: a.Text}
	}
	return out
}

var opcodes = map[string]string{
	javaparser.OpConstString: program.OpConstString,
	javaparser.OpInvoke:      program.OpInvoke,
	javaparser.OpNew:         program.OpNew,
	javaparser.OpAssign:      program.OpStore,
	javaparser.OpReturn:      program.OpReturn,
}

func instructions(ops []javaparser.Op) []program.Instruction {
	out := make([]program.Instruction, len(ops))
	for i, op := range ops {
		code, ok := opcodes[op.Kind]
		if !ok {
			code = program.OpOther
		}
		out[i] = program.Instruction{Op: code, Value: op.Value}
	}
	return out
}

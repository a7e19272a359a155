package gql

import (
	"strings"

	"apk-recon/internal/logger"
	"apk-recon/internal/program"
)

// strategy recovers argument sets for one constructor shape.
type strategy interface {
	argumentSets(ctor program.Method) []ArgumentSet
}

// dataClassStrategy reads the three constructor arguments of every static
// field of the candidate type declared by the classes that build it from a
// static initializer.
type dataClassStrategy struct{}

func (dataClassStrategy) argumentSets(ctor program.Method) []ArgumentSet {
	var sets []ArgumentSet
	forEachStaticInit(ctor, descriptorArity, func(args []program.Operand) {
		sets = append(sets, ArgumentSet{
			Arg0: stripLiteral(args[0].String()),
			Arg1: stripLiteral(args[1].String()),
			Arg2: stripEscapes(stripLiteral(args[2].String())),
		})
	})
	return sets
}

// noArgStrategy reads the string constants the constructor body loads
// itself.
type noArgStrategy struct{}

func (noArgStrategy) argumentSets(ctor program.Method) []ArgumentSet {
	insns := ctor.Instructions()
	if len(insns) == 0 {
		logger.Debug("No instructions in no-arg constructor of %s", ctor.DeclaringClass().Name())
		return nil
	}

	var consts []string
	for _, insn := range insns {
		if s, ok := insn.ConstString(); ok {
			consts = append(consts, s)
		}
	}
	if len(consts) != descriptorArity {
		logger.Debug("No-arg constructor of %s loads %d string constants, expected %d",
			ctor.DeclaringClass().Name(), len(consts), descriptorArity)
		return nil
	}

	return []ArgumentSet{{Arg0: consts[0], Arg1: consts[1], Arg2: consts[2]}}
}

// looseStringStrategy handles constructors that interleave the three strings
// with other parameters. Roles are told apart by the look of each value.
type looseStringStrategy struct{}

func (looseStringStrategy) argumentSets(ctor program.Method) []ArgumentSet {
	var sets []ArgumentSet
	forEachStaticInit(ctor, len(ctor.Parameters()), func(args []program.Operand) {
		var strs []string
		for _, a := range args {
			if a.IsString() {
				strs = append(strs, stripLiteral(a.String()))
			}
		}
		if len(strs) < descriptorArity {
			logger.Debug("Only %d string arguments for %s, skipping", len(strs), ctor.DeclaringClass().Name())
			return
		}
		set, ok := AssignRoles(strs)
		if !ok {
			logger.Debug("Could not assign operation roles for %s from %q", ctor.DeclaringClass().Name(), strs)
			return
		}
		sets = append(sets, set)
	})
	return sets
}

// forEachStaticInit visits the initializer operands of every field whose
// type is the constructor's class and whose initializer has arity operands,
// in classes that use the constructor from a static initializer.
func forEachStaticInit(ctor program.Method, arity int, visit func(args []program.Operand)) {
	typ := ctor.DeclaringClass().Name()
	for _, use := range ctor.UsedAt() {
		if !use.IsStaticInit() {
			continue
		}
		for _, f := range use.Owner().Fields() {
			if f.Type() != typ {
				continue
			}
			args, ok := f.InitArgs()
			if !ok || len(args) != arity {
				continue
			}
			visit(args)
		}
	}
}

// stripLiteral removes the two character literal wrapper on each side of a
// rendered string operand.
func stripLiteral(s string) string {
	n := len(program.LiteralPrefix)
	m := len(program.LiteralSuffix)
	if len(s) < n+m {
		return ""
	}
	return s[n : len(s)-m]
}

// stripEscapes drops the escaped newlines the decompiler keeps in long
// literals.
func stripEscapes(s string) string {
	return strings.ReplaceAll(s, `\n`, "")
}

// Package gql recovers GraphQL operation descriptors from a decompiled
// program. An operation class holds three final string fields (id, name and
// definition) and is built through one of a few constructor conventions.
package gql

import "apk-recon/internal/program"

const descriptorArity = 3

// ArgumentSet is one (id, name, definition) triple.
type ArgumentSet struct {
	Arg0 string
	Arg1 string
	Arg2 string
}

// IsEmpty reports whether the id slot is empty.
func (a ArgumentSet) IsEmpty() bool { return a.Arg0 == "" }

// FindCandidates returns the classes with exactly three fields, all final
// and string typed, and at least one constructor taking three strings.
func FindCandidates(m program.Model) []program.Class {
	var out []program.Class
	for _, c := range m.Classes() {
		if isCandidate(c) {
			out = append(out, c)
		}
	}
	return out
}

func isCandidate(c program.Class) bool {
	fields := c.Fields()
	if len(fields) != descriptorArity {
		return false
	}
	for _, f := range fields {
		if !f.IsFinal() || f.Type() != program.StringType {
			return false
		}
	}
	for _, m := range c.Methods() {
		if m.IsConstructor() && allStrings(m.Parameters(), descriptorArity) {
			return true
		}
	}
	return false
}

// allStrings reports whether params has exactly n entries, all strings.
func allStrings(params []string, n int) bool {
	if len(params) != n {
		return false
	}
	return countStrings(params) == n
}

func countStrings(params []string) int {
	n := 0
	for _, p := range params {
		if p == program.StringType {
			n++
		}
	}
	return n
}

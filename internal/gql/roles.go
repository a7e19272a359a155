package gql

import "strings"

const operationIDLength = 12

// IsOperationID matches a 12 character [0-9a-z] identifier.
func IsOperationID(s string) bool {
	if len(s) != operationIDLength {
		return false
	}
	return isLowerAlnum(s)
}

// IsOperationName matches an identifier that starts with an uppercase ASCII
// letter and is otherwise alphanumeric.
func IsOperationName(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	return isLowerAlnum(strings.ToLower(s))
}

// IsOperationDefinition matches a GraphQL document.
func IsOperationDefinition(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "query") || strings.Contains(lower, "mutation")
}

func isLowerAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// AssignRoles picks the id, name and definition out of strings in argument
// order. Each role takes the first string its predicate accepts; the roles
// do not exclude each other, so one string may fill more than one of them.
func AssignRoles(strs []string) (ArgumentSet, bool) {
	id, okID := firstMatch(strs, IsOperationID)
	name, okName := firstMatch(strs, IsOperationName)
	def, okDef := firstMatch(strs, IsOperationDefinition)
	if !okID || !okName || !okDef {
		return ArgumentSet{}, false
	}
	return ArgumentSet{Arg0: id, Arg1: name, Arg2: def}, true
}

func firstMatch(strs []string, pred func(string) bool) (string, bool) {
	for _, s := range strs {
		if pred(s) {
			return s, true
		}
	}
	return "", false
}

// Package signature normalizes Solidity signatures and turns them into
// identifying hashes.
package signature

import (
	"regexp"
	"strings"
)

var indexedPattern = regexp.MustCompile(`\s*\bindexed\b`)

// Canonicalize removes standalone "indexed" qualifiers and collapses
// whitespace runs to a single space.
func Canonicalize(raw string) string {
	stripped := indexedPattern.ReplaceAllString(raw, "")
	return strings.Join(strings.Fields(stripped), " ")
}

// TypeOnly returns Name(type1,type2,...) for a signature that may carry
// parameter names and trailing modifiers.
func TypeOnly(sig string) string {
	sig = Canonicalize(sig)
	name, list, ok := splitSignature(sig)
	if !ok {
		return sig
	}
	return name + "(" + strings.Join(paramTypes(list), ",") + ")"
}

// splitSignature returns the name and the top-level parameter list.
func splitSignature(sig string) (string, string, bool) {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return "", "", false
	}
	depth := 0
	for i := open; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(sig[:open]), sig[open+1 : i], true
			}
		}
	}
	return "", "", false
}

// paramTypes returns the first field of every top-level entry in list.
func paramTypes(list string) []string {
	types := make([]string, 0)
	depth := 0
	start := 0
	flush := func(entry string) {
		if fields := strings.Fields(entry); len(fields) > 0 {
			types = append(types, fields[0])
		}
	}
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				flush(list[start:i])
				start = i + 1
			}
		}
	}
	flush(list[start:])
	return types
}

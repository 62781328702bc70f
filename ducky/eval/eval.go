// Package eval implements variable substitution and boolean condition
// evaluation for the script interpreter.
package eval

import (
	"regexp"
	"strconv"
	"strings"
)

// maxSubstitutionPasses bounds Substitute's fixpoint loop. Ordinary
// scripts converge in one or two passes; this only guards against a
// pathological self-referencing variable chain.
const maxSubstitutionPasses = 64

var varToken = regexp.MustCompile(`\$([A-Za-z0-9_]+)`)

// Getter resolves a bare variable name (no leading "$") to its value.
type Getter func(name string) (string, bool)

// Substitute repeatedly replaces each $name token in s with its
// resolved value until a pass makes no further replacement. Unresolved
// $name tokens are left verbatim.
func Substitute(s string, get Getter) string {
	for i := 0; i < maxSubstitutionPasses; i++ {
		changed := false
		out := varToken.ReplaceAllStringFunc(s, func(tok string) string {
			name := tok[1:]
			if v, ok := get(name); ok {
				changed = true
				return v
			}
			return tok
		})
		if !changed {
			return out
		}
		s = out
	}
	return s
}

// twoCharOps and oneCharOps are checked in this order so "==" isn't
// mistaken for a trailing "=" and ">=" isn't mistaken for ">".
var twoCharOps = []string{"==", "!=", ">=", "<="}
var oneCharOps = []string{">", "<"}

// Eval substitutes cond, then splits it on top-level " || " (outermost,
// lowest precedence) and " && " (inner) before evaluating each leaf.
func Eval(cond string, get Getter) bool {
	sub := Substitute(cond, get)
	for _, orPart := range strings.Split(sub, " || ") {
		allTrue := true
		for _, leaf := range strings.Split(orPart, " && ") {
			if !evalLeaf(leaf) {
				allTrue = false
				break
			}
		}
		if allTrue {
			return true
		}
	}
	return false
}

func evalLeaf(leaf string) bool {
	leaf = strings.TrimSpace(leaf)
	for _, op := range twoCharOps {
		if idx := strings.Index(leaf, op); idx >= 0 {
			return compare(strings.TrimSpace(leaf[:idx]), strings.TrimSpace(leaf[idx+len(op):]), op)
		}
	}
	for _, op := range oneCharOps {
		if idx := strings.Index(leaf, op); idx >= 0 {
			return compare(strings.TrimSpace(leaf[:idx]), strings.TrimSpace(leaf[idx+len(op):]), op)
		}
	}
	switch strings.ToUpper(leaf) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	n, _ := strconv.Atoi(leaf)
	return n != 0
}

func compare(lhs, rhs, op string) bool {
	switch op {
	case "==":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	}
	l, _ := strconv.Atoi(lhs)
	r, _ := strconv.Atoi(rhs)
	switch op {
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	}
	return false
}

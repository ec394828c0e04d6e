// Package classify assigns every workspace file to the core or boundary
// class via longest-matching-prefix rules.
//
// Core files carry the stricter structural bans; the split must be total and
// unambiguous, and every rule must earn its keep: a rule that never wins a
// longest-match contest is dead and fails the run.
package classify

import (
	"fmt"
	"strings"
)

// Class is the two-way file split.
type Class string

const (
	ClassCore     Class = "core"
	ClassBoundary Class = "boundary"
)

// ParseClass maps a document spelling to a Class.
func ParseClass(s string) (Class, bool) {
	switch Class(s) {
	case ClassCore, ClassBoundary:
		return Class(s), true
	default:
		return "", false
	}
}

// Rule maps a workspace-relative path prefix to a class.
type Rule struct {
	Prefix string
	Class  Class
}

// AmbiguityError reports a file whose longest matching prefix is shared by
// differently-classified rules.
type AmbiguityError struct {
	File    string
	Prefix  string
	PrefixB string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("file '%s': classification is ambiguous between rules '%s' and '%s'", e.File, e.Prefix, e.PrefixB)
}

// NoRuleError reports a file no rule matches.
type NoRuleError struct {
	File string
}

func (e *NoRuleError) Error() string {
	return fmt.Sprintf("file '%s': no classification rule matches", e.File)
}

// DeadRuleError reports a rule that classified nothing.
type DeadRuleError struct {
	Prefix string
}

func (e *DeadRuleError) Error() string {
	return fmt.Sprintf("classification rule '%s' matches no file", e.Prefix)
}

// Assignment is the total file→class map produced by a successful
// classification.
type Assignment struct {
	classes map[string]Class
}

// Class returns the class assigned to a file.
func (a *Assignment) Class(file string) (Class, bool) {
	c, ok := a.classes[file]
	return c, ok
}

// Core lists the core-classified files in input order.
func (a *Assignment) Core(files []string) []string {
	var core []string
	for _, f := range files {
		if a.classes[f] == ClassCore {
			core = append(core, f)
		}
	}
	return core
}

// Classify assigns each file its most-specific rule's class.
//
// For one file: all matching rules compete; the longest prefix wins. A tie at
// maximal length between differently-classified rules is an AmbiguityError;
// same-class ties all count as winners. A file with no match is a
// NoRuleError. After the whole set is classified, any rule that never won is
// a DeadRuleError.
func Classify(rules []Rule, files []string) (*Assignment, error) {
	won := make([]bool, len(rules))
	a := &Assignment{classes: make(map[string]Class, len(files))}

	for _, file := range files {
		// Only rules at the maximal matching length compete; a
		// differently-classified tie at a shorter prefix is simply shadowed.
		bestLen := -1
		for _, r := range rules {
			if strings.HasPrefix(file, r.Prefix) && len(r.Prefix) > bestLen {
				bestLen = len(r.Prefix)
			}
		}
		if bestLen < 0 {
			return nil, &NoRuleError{File: file}
		}
		best := -1
		for i, r := range rules {
			if len(r.Prefix) != bestLen || !strings.HasPrefix(file, r.Prefix) {
				continue
			}
			if best >= 0 && rules[best].Class != r.Class {
				return nil, &AmbiguityError{File: file, Prefix: rules[best].Prefix, PrefixB: r.Prefix}
			}
			if best < 0 {
				best = i
			}
			won[i] = true
		}
		a.classes[file] = rules[best].Class
	}

	for i, r := range rules {
		if !won[i] {
			return nil, &DeadRuleError{Prefix: r.Prefix}
		}
	}
	return a, nil
}

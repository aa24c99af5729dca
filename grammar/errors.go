package grammar

import (
	"fmt"
	"strings"
)

// TermError reports structurally invalid term construction: an empty literal,
// an empty sequence, repetition bounds with maximum below minimum, and the
// like. Term factories panic with a *TermError at the offending call; it never
// travels as far as resolution.
type TermError struct {
	Op     string // the factory that was misused
	Reason string
}

func (e *TermError) Error() string {
	return fmt.Sprintf("grammar: %s: %s", e.Op, e.Reason)
}

// DuplicateProductionError reports an attempt to register a second production
// under an already-used name.
type DuplicateProductionError struct {
	Name string
}

func (e *DuplicateProductionError) Error() string {
	return fmt.Sprintf("production %q is already defined", e.Name)
}

// UndefinedProductionsError reports non-terminal references to production
// names that are not defined in the grammar. It is never suppressible by any
// resolution option.
type UndefinedProductionsError struct {
	// Names holds the undefined names in ascending order.
	Names []string
}

func (e *UndefinedProductionsError) Error() string {
	return "undefined productions: " + strings.Join(e.Names, ", ")
}

// UnusedProductionsError reports productions that are not reachable from the
// root production. It is suppressed by SkipUnusedProductions and
// IgnoreUnusedProductions.
type UnusedProductionsError struct {
	// Names holds the unreachable names in insertion order.
	Names []string
}

func (e *UnusedProductionsError) Error() string {
	return "unused productions: " + strings.Join(e.Names, ", ")
}

// RootlessGrammarError reports resolution of a grammar with no productions,
// and therefore no root, without the AllowRootless option.
type RootlessGrammarError struct {
	Language string
}

func (e *RootlessGrammarError) Error() string {
	return fmt.Sprintf("grammar %q has no root production", e.Language)
}

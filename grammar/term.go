// Package grammar models EBNF-like grammars as a composable term algebra.
//
// Terms are created by factory functions (Literal, NonTerminal, Sequence,
// OneOf, ...), collected into named productions by a Builder, and frozen into
// an immutable Grammar by Build, which validates references and reachability.
package grammar

import (
	"fmt"
	"strings"
)

// TermKind identifies the variant of a Term.
type TermKind uint

const (
	KindEpsilon TermKind = iota
	KindLiteral
	KindCharacterSet
	KindNonTerminal
	KindSequence
	KindAlternatives
	KindOptional
	KindRepetition
)

// String returns the string representation of a TermKind
func (k TermKind) String() string {
	switch k {
	case KindEpsilon:
		return "Epsilon"
	case KindLiteral:
		return "Literal"
	case KindCharacterSet:
		return "CharacterSet"
	case KindNonTerminal:
		return "NonTerminal"
	case KindSequence:
		return "Sequence"
	case KindAlternatives:
		return "Alternatives"
	case KindOptional:
		return "Optional"
	case KindRepetition:
		return "Repetition"
	default:
		return "Unknown"
	}
}

// Term is a node in a grammar's structural algebra. The variant set is closed:
// every Term is one of the eight kinds enumerated by TermKind, and consumers
// take terms apart through Transform or Walk rather than type assertions.
//
// Terms are immutable once constructed. Factory functions validate structural
// invariants eagerly and panic with a *TermError on misuse, in the manner of
// regexp.MustCompile; grammars built from untrusted input should go through
// the xmldef reader, which converts such panics into ordinary errors.
type Term interface {
	fmt.Stringer

	// Kind reports the variant of this term.
	Kind() TermKind

	// sealed marks the variant set as closed.
	sealed()
}

type literalNode struct {
	value         string
	caseSensitive bool
}

type nonTerminalNode struct {
	ref string
}

type sequenceNode struct {
	terms []Term
}

type alternativesNode struct {
	terms []Term
}

type optionalNode struct {
	term Term
}

type repetitionNode struct {
	term Term
	min  int
	max  int
	// bounded is false for zero-or-more / at-least repetitions
	bounded bool
}

// Max returns the maximum repeat count, if the repetition is bounded.
func (r *repetitionNode) Max() (int, bool) { return r.max, r.bounded }

type epsilonNode struct{}

func (*literalNode) sealed()      {}
func (*nonTerminalNode) sealed()  {}
func (*sequenceNode) sealed()     {}
func (*alternativesNode) sealed() {}
func (*optionalNode) sealed()     {}
func (*repetitionNode) sealed()   {}
func (epsilonNode) sealed()       {}
func (*CharacterSet) sealed()     {}

func (*literalNode) Kind() TermKind      { return KindLiteral }
func (*nonTerminalNode) Kind() TermKind  { return KindNonTerminal }
func (*sequenceNode) Kind() TermKind     { return KindSequence }
func (*alternativesNode) Kind() TermKind { return KindAlternatives }
func (*optionalNode) Kind() TermKind     { return KindOptional }
func (*repetitionNode) Kind() TermKind   { return KindRepetition }
func (epsilonNode) Kind() TermKind       { return KindEpsilon }

func (l *literalNode) String() string {
	if l.caseSensitive {
		return fmt.Sprintf("%q", l.value)
	}
	return fmt.Sprintf("~%q", l.value)
}

func (n *nonTerminalNode) String() string { return n.ref }

func (s *sequenceNode) String() string { return joinTerms(s.terms, " ") }

func (a *alternativesNode) String() string {
	return "(" + joinTerms(a.terms, " | ") + ")"
}

func (o *optionalNode) String() string { return "[" + o.term.String() + "]" }

func (r *repetitionNode) String() string {
	switch {
	case !r.bounded && r.min == 0:
		return "{" + r.term.String() + "}"
	case !r.bounded:
		return fmt.Sprintf("{%s}%d..", r.term, r.min)
	case r.min == r.max:
		return fmt.Sprintf("{%s}%d", r.term, r.min)
	default:
		return fmt.Sprintf("{%s}%d..%d", r.term, r.min, r.max)
	}
}

func (epsilonNode) String() string { return "ε" }

func joinTerms(terms []Term, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

var sharedEpsilon = epsilonNode{}

// Epsilon returns the term representing the empty production.
func Epsilon() Term { return sharedEpsilon }

// Literal creates a case-sensitive literal term. The value must be non-empty.
func Literal(value string) Term {
	if value == "" {
		panic(&TermError{Op: "literal", Reason: "empty literal value"})
	}
	return &literalNode{value: value, caseSensitive: true}
}

// CaseInsensitive creates a literal term matched without regard to case. The
// value must be non-empty.
func CaseInsensitive(value string) Term {
	if value == "" {
		panic(&TermError{Op: "caseInsensitive", Reason: "empty literal value"})
	}
	return &literalNode{value: value, caseSensitive: false}
}

// NonTerminal creates a reference to the production with the given name.
// Whether the name is defined is checked at resolution, not here.
func NonTerminal(production string) Term {
	if production == "" {
		panic(&TermError{Op: "nonTerminal", Reason: "empty production name"})
	}
	return &nonTerminalNode{ref: production}
}

// Sequence creates an ordered sequence of the given terms. A single term is
// returned as-is.
func Sequence(first Term, more ...Term) Term {
	requireTerms("sequence", first, more)
	if len(more) == 0 {
		return first
	}
	return &sequenceNode{terms: prepend(first, more)}
}

// OneOf creates an ordered choice between the given terms, the first being the
// preferred alternative. A single term is returned as-is.
func OneOf(first Term, alternatives ...Term) Term {
	requireTerms("oneOf", first, alternatives)
	if len(alternatives) == 0 {
		return first
	}
	return &alternativesNode{terms: prepend(first, alternatives)}
}

// Optional creates a term matching the given terms, as a sequence, zero or one
// time.
func Optional(first Term, more ...Term) Term {
	requireTerms("optional", first, more)
	return &optionalNode{term: Sequence(first, more...)}
}

// ZeroOrMore creates an unbounded repetition of the given terms as a sequence.
func ZeroOrMore(first Term, more ...Term) Term {
	return AtLeast(0, first, more...)
}

// OneOrMore creates a repetition of the given terms as a sequence, matched at
// least once.
func OneOrMore(first Term, more ...Term) Term {
	return AtLeast(1, first, more...)
}

// AtLeast creates an unbounded repetition matched no fewer than times times.
func AtLeast(times int, first Term, more ...Term) Term {
	requireTerms("repeat", first, more)
	if times < 0 {
		panic(&TermError{Op: "repeat", Reason: fmt.Sprintf("negative minimum %d", times)})
	}
	return &repetitionNode{term: Sequence(first, more...), min: times}
}

// Repeat creates a repetition matched exactly times times.
func Repeat(times int, first Term, more ...Term) Term {
	return RepeatRange(times, times, first, more...)
}

// RepeatRange creates a repetition matched between min and max times,
// inclusive.
func RepeatRange(min, max int, first Term, more ...Term) Term {
	requireTerms("repeat", first, more)
	if min < 0 {
		panic(&TermError{Op: "repeat", Reason: fmt.Sprintf("negative minimum %d", min)})
	}
	if max < min {
		panic(&TermError{Op: "repeat", Reason: fmt.Sprintf("maximum %d is less than minimum %d", max, min)})
	}
	return &repetitionNode{term: Sequence(first, more...), min: min, max: max, bounded: true}
}

func requireTerms(op string, first Term, more []Term) {
	if first == nil {
		panic(&TermError{Op: op, Reason: "nil term"})
	}
	for _, t := range more {
		if t == nil {
			panic(&TermError{Op: op, Reason: "nil term"})
		}
	}
}

func prepend(first Term, more []Term) []Term {
	terms := make([]Term, 0, len(more)+1)
	terms = append(terms, first)
	return append(terms, more...)
}

package grammar

import "fmt"

// TermTransformation is a traversal operation over single terms, with one case
// per term variant. P is an arbitrary per-call context value and R the result
// type. Errors returned by a case propagate out of Transform unchanged; the
// dispatch never wraps or interprets them.
//
// Transformations receive the data of the dispatched node only. Recursion into
// child terms is the transformation's own responsibility, via nested Transform
// calls.
type TermTransformation[P, R any] interface {
	TransformEpsilon(param P) (R, error)
	TransformLiteral(param P, value string, caseSensitive bool) (R, error)
	TransformCharacterSet(param P, set *CharacterSet) (R, error)
	TransformNonTerminal(param P, ref string) (R, error)
	TransformSequence(param P, terms []Term) (R, error)
	TransformAlternatives(param P, terms []Term) (R, error)
	TransformOptional(param P, term Term) (R, error)
	TransformRepetition(param P, term Term, min, max int, bounded bool) (R, error)
}

// Transform dispatches the variant-specific case of xform against the given
// term. It is the single dispatch point for all term consumers; adding a new
// consumer never requires touching the term model.
func Transform[P, R any](t Term, xform TermTransformation[P, R], param P) (R, error) {
	switch n := t.(type) {
	case epsilonNode:
		return xform.TransformEpsilon(param)
	case *literalNode:
		return xform.TransformLiteral(param, n.value, n.caseSensitive)
	case *CharacterSet:
		return xform.TransformCharacterSet(param, n)
	case *nonTerminalNode:
		return xform.TransformNonTerminal(param, n.ref)
	case *sequenceNode:
		return xform.TransformSequence(param, n.terms)
	case *alternativesNode:
		return xform.TransformAlternatives(param, n.terms)
	case *optionalNode:
		return xform.TransformOptional(param, n.term)
	case *repetitionNode:
		return xform.TransformRepetition(param, n.term, n.min, n.max, n.bounded)
	default:
		// unreachable: the variant set is sealed
		panic(fmt.Sprintf("grammar: unknown term type %T", t))
	}
}

// TermVisitor is the no-result form of TermTransformation, for side-effecting
// traversal. As with transformations, a visitor recurses into child terms
// itself, by calling Walk on them.
type TermVisitor interface {
	VisitEpsilon() error
	VisitLiteral(value string, caseSensitive bool) error
	VisitCharacterSet(set *CharacterSet) error
	VisitNonTerminal(ref string) error
	VisitSequence(terms []Term) error
	VisitAlternatives(terms []Term) error
	VisitOptional(term Term) error
	VisitRepetition(term Term, min, max int, bounded bool) error
}

// Walk dispatches the variant-specific case of v against the given term.
func Walk(t Term, v TermVisitor) error {
	_, err := Transform[TermVisitor, struct{}](t, visitDispatch{}, v)
	return err
}

// visitDispatch adapts a TermVisitor into a unit-result transformation, so
// that Walk and Transform share one dispatch path.
type visitDispatch struct{}

var none struct{}

func (visitDispatch) TransformEpsilon(v TermVisitor) (struct{}, error) {
	return none, v.VisitEpsilon()
}

func (visitDispatch) TransformLiteral(v TermVisitor, value string, caseSensitive bool) (struct{}, error) {
	return none, v.VisitLiteral(value, caseSensitive)
}

func (visitDispatch) TransformCharacterSet(v TermVisitor, set *CharacterSet) (struct{}, error) {
	return none, v.VisitCharacterSet(set)
}

func (visitDispatch) TransformNonTerminal(v TermVisitor, ref string) (struct{}, error) {
	return none, v.VisitNonTerminal(ref)
}

func (visitDispatch) TransformSequence(v TermVisitor, terms []Term) (struct{}, error) {
	return none, v.VisitSequence(terms)
}

func (visitDispatch) TransformAlternatives(v TermVisitor, terms []Term) (struct{}, error) {
	return none, v.VisitAlternatives(terms)
}

func (visitDispatch) TransformOptional(v TermVisitor, term Term) (struct{}, error) {
	return none, v.VisitOptional(term)
}

func (visitDispatch) TransformRepetition(v TermVisitor, term Term, min, max int, bounded bool) (struct{}, error) {
	return none, v.VisitRepetition(term, min, max, bounded)
}

// ProductionTransformation is a traversal operation over whole productions,
// dispatched by TransformProduction.
type ProductionTransformation[P, R any] func(param P, production *Production) (R, error)

// TransformProduction locates the named production in g and applies xform to
// it, returning the transformation's result or propagating its error
// unchanged. Referencing a production absent from g is an error.
func TransformProduction[P, R any](g *Grammar, production string, xform ProductionTransformation[P, R], param P) (R, error) {
	p, ok := g.index[production]
	if !ok {
		var zero R
		return zero, fmt.Errorf("grammar %q has no production %q", g.language, production)
	}
	return xform(param, p)
}

// GrammarVisitor is applied to every production of a grammar, in insertion
// order, by Grammar.Accept.
type GrammarVisitor interface {
	VisitProduction(production *Production) error
}

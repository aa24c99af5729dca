// Package export renders resolved grammars for downstream tools: a JSON
// document model (with a published JSON Schema) and an EBNF text form. Both
// are ordinary clients of the grammar package's transformation dispatch and
// need no access to term internals.
package export

import (
	"github.com/breakdawn/openCypher/grammar"
)

// Document is the JSON form of a resolved grammar.
type Document struct {
	Language    string       `json:"language" jsonschema:"title=Language,description=Name of the modeled language"`
	Header      string       `json:"header,omitempty" jsonschema:"description=Free-text header of the grammar"`
	Productions []Production `json:"productions"`
}

// Production is the JSON form of one grammar rule.
type Production struct {
	Name string `json:"name"`
	Body Term   `json:"body"`
}

// Term is the JSON form of a term tree node. Kind selects the variant and
// decides which of the remaining fields are meaningful.
type Term struct {
	Kind string `json:"kind" jsonschema:"enum=epsilon,enum=literal,enum=characterSet,enum=nonTerminal,enum=sequence,enum=alternatives,enum=optional,enum=repetition"`

	// literal
	Value         string `json:"value,omitempty"`
	CaseSensitive *bool  `json:"caseSensitive,omitempty"`

	// characterSet
	Set    string `json:"set,omitempty"`
	Except []int  `json:"except,omitempty"`

	// nonTerminal
	Ref string `json:"ref,omitempty"`

	// sequence, alternatives: children; optional, repetition: the inner term
	Terms []Term `json:"terms,omitempty"`

	// repetition
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Flatten converts a resolved grammar into its JSON document form,
// productions in grammar order.
func Flatten(g *grammar.Grammar) (*Document, error) {
	doc := &Document{
		Language:    g.Language(),
		Header:      g.Header(),
		Productions: make([]Production, 0, len(g.Productions())),
	}

	for _, p := range g.Productions() {
		body, err := grammar.Transform(p.Body(), flattener{}, struct{}{})
		if err != nil {
			return nil, err
		}
		doc.Productions = append(doc.Productions, Production{Name: p.Name(), Body: body})
	}
	return doc, nil
}

// flattener maps term variants onto Term documents.
type flattener struct{}

func (f flattener) TransformEpsilon(struct{}) (Term, error) {
	return Term{Kind: "epsilon"}, nil
}

func (f flattener) TransformLiteral(_ struct{}, value string, caseSensitive bool) (Term, error) {
	cs := caseSensitive
	return Term{Kind: "literal", Value: value, CaseSensitive: &cs}, nil
}

func (f flattener) TransformCharacterSet(_ struct{}, set *grammar.CharacterSet) (Term, error) {
	doc := Term{Kind: "characterSet", Set: set.Set()}
	for _, cp := range set.Exclusions() {
		doc.Except = append(doc.Except, int(cp))
	}
	return doc, nil
}

func (f flattener) TransformNonTerminal(_ struct{}, ref string) (Term, error) {
	return Term{Kind: "nonTerminal", Ref: ref}, nil
}

func (f flattener) TransformSequence(_ struct{}, terms []grammar.Term) (Term, error) {
	children, err := f.flattenAll(terms)
	if err != nil {
		return Term{}, err
	}
	return Term{Kind: "sequence", Terms: children}, nil
}

func (f flattener) TransformAlternatives(_ struct{}, terms []grammar.Term) (Term, error) {
	children, err := f.flattenAll(terms)
	if err != nil {
		return Term{}, err
	}
	return Term{Kind: "alternatives", Terms: children}, nil
}

func (f flattener) TransformOptional(_ struct{}, term grammar.Term) (Term, error) {
	child, err := grammar.Transform(term, f, struct{}{})
	if err != nil {
		return Term{}, err
	}
	return Term{Kind: "optional", Terms: []Term{child}}, nil
}

func (f flattener) TransformRepetition(_ struct{}, term grammar.Term, min, max int, bounded bool) (Term, error) {
	child, err := grammar.Transform(term, f, struct{}{})
	if err != nil {
		return Term{}, err
	}
	doc := Term{Kind: "repetition", Terms: []Term{child}, Min: &min}
	if bounded {
		doc.Max = &max
	}
	return doc, nil
}

func (f flattener) flattenAll(terms []grammar.Term) ([]Term, error) {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		child, err := grammar.Transform(t, f, struct{}{})
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

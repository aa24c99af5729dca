package export

import (
	"fmt"
	"strings"

	"github.com/breakdawn/openCypher/grammar"
)

// EBNF renders a resolved grammar as EBNF text, one production per line, with
// the header (if any) as a leading comment block.
func EBNF(g *grammar.Grammar) (string, error) {
	var sb strings.Builder

	if h := g.Header(); h != "" {
		sb.WriteString("(* " + h + " *)\n\n")
	}

	for _, p := range g.Productions() {
		body, err := grammar.Transform(p.Body(), ebnfRenderer{}, true)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s ::= %s\n", p.Name(), body)
	}
	return sb.String(), nil
}

// ebnfRenderer renders term trees in postfix-quantifier EBNF notation. The
// param reports whether the node sits at the top level of a production body,
// where alternatives need no enclosing parentheses.
type ebnfRenderer struct{}

func (r ebnfRenderer) TransformEpsilon(bool) (string, error) {
	return "ε", nil
}

func (r ebnfRenderer) TransformLiteral(_ bool, value string, _ bool) (string, error) {
	return fmt.Sprintf("%q", value), nil
}

func (r ebnfRenderer) TransformCharacterSet(_ bool, set *grammar.CharacterSet) (string, error) {
	out := "[:" + set.Set() + ":]"
	if ex := set.Exclusions(); len(ex) > 0 {
		parts := make([]string, len(ex))
		for i, cp := range ex {
			parts[i] = fmt.Sprintf("#x%04X", cp)
		}
		out += " - [" + strings.Join(parts, " ") + "]"
	}
	return out, nil
}

func (r ebnfRenderer) TransformNonTerminal(_ bool, ref string) (string, error) {
	return ref, nil
}

func (r ebnfRenderer) TransformSequence(_ bool, terms []grammar.Term) (string, error) {
	parts, err := r.renderAll(terms)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

func (r ebnfRenderer) TransformAlternatives(top bool, terms []grammar.Term) (string, error) {
	parts, err := r.renderAll(terms)
	if err != nil {
		return "", err
	}
	joined := strings.Join(parts, " | ")
	if top {
		return joined, nil
	}
	return "(" + joined + ")", nil
}

func (r ebnfRenderer) TransformOptional(_ bool, term grammar.Term) (string, error) {
	inner, err := r.renderGrouped(term)
	if err != nil {
		return "", err
	}
	return inner + "?", nil
}

func (r ebnfRenderer) TransformRepetition(_ bool, term grammar.Term, min, max int, bounded bool) (string, error) {
	inner, err := r.renderGrouped(term)
	if err != nil {
		return "", err
	}
	switch {
	case !bounded && min == 0:
		return inner + "*", nil
	case !bounded && min == 1:
		return inner + "+", nil
	case !bounded:
		return fmt.Sprintf("%s{%d,}", inner, min), nil
	case min == max:
		return fmt.Sprintf("%s{%d}", inner, min), nil
	default:
		return fmt.Sprintf("%s{%d,%d}", inner, min, max), nil
	}
}

func (r ebnfRenderer) renderAll(terms []grammar.Term) ([]string, error) {
	parts := make([]string, len(terms))
	for i, t := range terms {
		part, err := grammar.Transform(t, r, false)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	return parts, nil
}

// renderGrouped parenthesizes composite terms so a trailing quantifier binds
// to the whole of them.
func (r ebnfRenderer) renderGrouped(term grammar.Term) (string, error) {
	out, err := grammar.Transform(term, r, false)
	if err != nil {
		return "", err
	}
	switch term.Kind() {
	case grammar.KindSequence:
		return "(" + out + ")", nil
	default:
		return out, nil
	}
}

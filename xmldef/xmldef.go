// Package xmldef converts XML grammar documents to grammar.Grammar values.
//
// A document is a <grammar language="..."> root in the Namespace namespace,
// holding an optional free-text <header> and one <production name="..."> per
// grammar rule. Production bodies mix significant character data (matched
// literally) with the term elements <alt>, <seq>, <opt>, <repeat min max>,
// <literal value case-sensitive>, <character set> (with <except codePoint>
// or <except literal> children) and <non-terminal ref>. Elements from other
// namespaces are annotation layers and are skipped.
//
// The reader performs no validation of its own beyond document shape: it
// issues the same builder calls a manual caller would make and hands the
// result to grammar resolution, so referential and policy errors come back
// from the grammar package unchanged.
package xmldef

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/breakdawn/openCypher/grammar"
)

// Namespace is the XML namespace of grammar documents.
const Namespace = "http://thobe.org/grammar"

// Parse reads an XML grammar document and resolves it into a Grammar.
// Malformed documents, schema violations and (in strict mode) unknown
// attributes fail parsing; resolution failures propagate unchanged from the
// grammar package.
func Parse(r io.Reader, options ...Option) (*grammar.Grammar, error) {
	strict, resolve := split(options)
	rd := &reader{d: xml.NewDecoder(r), strict: strict}

	b, err := rd.readDocument()
	if err != nil {
		return nil, err
	}
	return b.Build(resolve...)
}

// ParseFile reads the XML grammar document at the given path.
func ParseFile(path string, options ...Option) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, options...)
}

type reader struct {
	d      *xml.Decoder
	strict bool
}

// readDocument maps the document onto builder calls. Term construction panics
// (a *grammar.TermError) are converted to errors here, since document content
// is data, not code.
func (r *reader) readDocument() (b *grammar.Builder, err error) {
	defer func() {
		if p := recover(); p != nil {
			te, ok := p.(*grammar.TermError)
			if !ok {
				panic(p)
			}
			b, err = nil, fmt.Errorf("invalid grammar document: %w", te)
		}
	}()

	root, err := r.rootElement()
	if err != nil {
		return nil, err
	}

	attrs, err := r.attributes(root, "language")
	if err != nil {
		return nil, err
	}
	language := attrs["language"]
	if language == "" {
		return nil, fmt.Errorf("<grammar> element has no language attribute")
	}
	b = grammar.NewBuilder(language)

	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of document inside <grammar>")
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != Namespace {
				// foreign-namespace annotation layer
				if err := r.d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			switch t.Name.Local {
			case "header":
				header, err := r.textContent()
				if err != nil {
					return nil, err
				}
				b.SetHeader(strings.TrimSpace(header))
			case "production":
				if err := r.readProduction(b, t); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("unexpected element <%s> in <grammar>", t.Name.Local)
			}
		case xml.EndElement:
			return b, nil
		}
	}
}

// rootElement scans forward to the document's root element and checks it is
// <grammar> in the right namespace.
func (r *reader) rootElement() (xml.StartElement, error) {
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return xml.StartElement{}, fmt.Errorf("document has no root element")
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Space != Namespace || se.Name.Local != "grammar" {
			return xml.StartElement{}, fmt.Errorf(
				"root element is <%s> in namespace %q, want <grammar> in %q",
				se.Name.Local, se.Name.Space, Namespace)
		}
		return se, nil
	}
}

func (r *reader) readProduction(b *grammar.Builder, se xml.StartElement) error {
	attrs, err := r.attributes(se, "name")
	if err != nil {
		return err
	}
	name := attrs["name"]
	if name == "" {
		return fmt.Errorf("<production> element has no name attribute")
	}

	items, err := r.readItems(se.Name.Local)
	if err != nil {
		return fmt.Errorf("production %q: %w", name, err)
	}

	body := grammar.Epsilon()
	if len(items) > 0 {
		body = grammar.Sequence(items[0], items[1:]...)
	}
	return b.Production(name, body)
}

// readItems collects the terms of a container element until its end tag.
// Non-blank character data becomes a case-sensitive literal.
func (r *reader) readItems(parent string) ([]grammar.Term, error) {
	var items []grammar.Term
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of document inside <%s>", parent)
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text != "" {
				items = append(items, grammar.Literal(text))
			}
		case xml.StartElement:
			if t.Name.Space != Namespace {
				if err := r.d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			term, err := r.readTerm(t)
			if err != nil {
				return nil, err
			}
			items = append(items, term)
		case xml.EndElement:
			return items, nil
		}
	}
}

func (r *reader) readTerm(se xml.StartElement) (grammar.Term, error) {
	switch se.Name.Local {
	case "alt":
		items, err := r.nonEmptyItems(se)
		if err != nil {
			return nil, err
		}
		return grammar.OneOf(items[0], items[1:]...), nil

	case "seq":
		items, err := r.nonEmptyItems(se)
		if err != nil {
			return nil, err
		}
		return grammar.Sequence(items[0], items[1:]...), nil

	case "opt":
		items, err := r.nonEmptyItems(se)
		if err != nil {
			return nil, err
		}
		return grammar.Optional(items[0], items[1:]...), nil

	case "repeat":
		return r.readRepeat(se)

	case "literal":
		attrs, err := r.attributes(se, "value", "case-sensitive")
		if err != nil {
			return nil, err
		}
		if err := r.d.Skip(); err != nil {
			return nil, err
		}
		value := attrs["value"]
		if value == "" {
			return nil, fmt.Errorf("<literal> element has no value attribute")
		}
		if attrs["case-sensitive"] == "false" {
			return grammar.CaseInsensitive(value), nil
		}
		return grammar.Literal(value), nil

	case "character":
		return r.readCharacter(se)

	case "non-terminal":
		attrs, err := r.attributes(se, "ref")
		if err != nil {
			return nil, err
		}
		if err := r.d.Skip(); err != nil {
			return nil, err
		}
		if attrs["ref"] == "" {
			return nil, fmt.Errorf("<non-terminal> element has no ref attribute")
		}
		return grammar.NonTerminal(attrs["ref"]), nil

	default:
		return nil, fmt.Errorf("unexpected element <%s>", se.Name.Local)
	}
}

func (r *reader) nonEmptyItems(se xml.StartElement) ([]grammar.Term, error) {
	if _, err := r.attributes(se); err != nil {
		return nil, err
	}
	items, err := r.readItems(se.Name.Local)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("<%s> element has no content", se.Name.Local)
	}
	return items, nil
}

func (r *reader) readRepeat(se xml.StartElement) (grammar.Term, error) {
	attrs, err := r.attributes(se, "min", "max")
	if err != nil {
		return nil, err
	}

	min := 0
	if attrs["min"] != "" {
		if min, err = strconv.Atoi(attrs["min"]); err != nil {
			return nil, fmt.Errorf("<repeat> min attribute: %w", err)
		}
	}

	items, err := r.readItems(se.Name.Local)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("<repeat> element has no content")
	}

	if attrs["max"] != "" {
		max, err := strconv.Atoi(attrs["max"])
		if err != nil {
			return nil, fmt.Errorf("<repeat> max attribute: %w", err)
		}
		return grammar.RepeatRange(min, max, items[0], items[1:]...), nil
	}
	return grammar.AtLeast(min, items[0], items[1:]...), nil
}

func (r *reader) readCharacter(se xml.StartElement) (grammar.Term, error) {
	attrs, err := r.attributes(se, "set")
	if err != nil {
		return nil, err
	}

	set := grammar.AnyCharacter()
	if attrs["set"] != "" {
		set = grammar.CharactersOfSet(attrs["set"])
	}

	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of document inside <character>")
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != Namespace || t.Name.Local != "except" {
				return nil, fmt.Errorf("unexpected element <%s> in <character>", t.Name.Local)
			}
			cp, err := r.readExcept(t)
			if err != nil {
				return nil, err
			}
			set = set.Except(cp)
		case xml.EndElement:
			return set, nil
		}
	}
}

func (r *reader) readExcept(se xml.StartElement) (rune, error) {
	attrs, err := r.attributes(se, "codePoint", "literal")
	if err != nil {
		return 0, err
	}
	if err := r.d.Skip(); err != nil {
		return 0, err
	}

	switch {
	case attrs["codePoint"] != "":
		cp, err := strconv.Atoi(attrs["codePoint"])
		if err != nil || cp < 0 || cp > utf8.MaxRune {
			return 0, fmt.Errorf("<except> element has invalid codePoint %q", attrs["codePoint"])
		}
		return rune(cp), nil
	case attrs["literal"] != "":
		cp, size := utf8.DecodeRuneInString(attrs["literal"])
		if size != len(attrs["literal"]) {
			return 0, fmt.Errorf("<except> literal %q is not a single character", attrs["literal"])
		}
		return cp, nil
	default:
		return 0, fmt.Errorf("<except> element needs a codePoint or literal attribute")
	}
}

// attributes collects the known attributes of an element by local name.
// Namespace declarations and foreign-namespace attributes are always ignored;
// other unknown attributes are ignored unless strict mode was requested.
func (r *reader) attributes(se xml.StartElement, known ...string) (map[string]string, error) {
	attrs := map[string]string{}
	for _, a := range se.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if a.Name.Space != "" && a.Name.Space != Namespace {
			continue
		}
		if !containsString(known, a.Name.Local) {
			if r.strict {
				return nil, fmt.Errorf("unknown attribute %q on <%s>", a.Name.Local, se.Name.Local)
			}
			continue
		}
		attrs[a.Name.Local] = a.Value
	}
	return attrs, nil
}

// textContent reads the character data of the current element up to its end
// tag. Nested elements are not allowed.
func (r *reader) textContent() (string, error) {
	var sb strings.Builder
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return "", fmt.Errorf("unexpected end of document")
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s> in text content", t.Name.Local)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

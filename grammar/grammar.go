package grammar

// Grammar is the immutable, validated result of resolving a Builder: every
// non-terminal reference resolves to a production present in the grammar, and
// the production set has passed (or been pruned by) reachability analysis.
//
// No field is mutated after resolution, so a Grammar is safe for
// unsynchronized concurrent reads by any number of traversal consumers.
type Grammar struct {
	language    string
	header      string
	productions []*Production // insertion order, minus any pruned entries
	index       map[string]*Production
}

// Language returns the name of the modeled language.
func (g *Grammar) Language() string { return g.language }

// Header returns the grammar's free-text header, if any.
func (g *Grammar) Header() string { return g.header }

// HasProduction reports whether the grammar contains a production with the
// given name.
func (g *Grammar) HasProduction(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Production returns the named production, or false if the grammar has none
// of that name.
func (g *Grammar) Production(name string) (*Production, bool) {
	p, ok := g.index[name]
	return p, ok
}

// Productions returns the grammar's productions in insertion order. The
// caller may keep the returned slice; it is a copy.
func (g *Grammar) Productions() []*Production {
	out := make([]*Production, len(g.productions))
	copy(out, g.productions)
	return out
}

// Root returns the grammar's root production, or false for a rootless
// grammar.
func (g *Grammar) Root() (*Production, bool) {
	if len(g.productions) == 0 {
		return nil, false
	}
	return g.productions[0], true
}

// Accept invokes the visitor on every production, in insertion order. The
// first error returned by the visitor stops the walk and propagates
// unchanged.
func (g *Grammar) Accept(v GrammarVisitor) error {
	for _, p := range g.productions {
		if err := v.VisitProduction(p); err != nil {
			return err
		}
	}
	return nil
}

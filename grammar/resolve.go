package grammar

import "sort"

// resolve turns a builder's mutable state into a validated, immutable Grammar.
//
// The pipeline is all-or-nothing:
//  1. every non-terminal reference must name a registered production (never
//     relaxed by options);
//  2. a grammar with no productions needs AllowRootless;
//  3. productions unreachable from the root (the first one registered) are an
//     error, pruned under SkipUnusedProductions, or kept under
//     IgnoreUnusedProductions.
func resolve(b *Builder, cfg resolveConfig) (*Grammar, error) {
	if err := findUndefinedProductions(b); err != nil {
		return nil, err
	}

	if len(b.names) == 0 {
		if !cfg.allowRootless {
			return nil, &RootlessGrammarError{Language: b.language}
		}
		return freeze(b, nil), nil
	}

	reached := reachableProductions(b)
	unused := make([]string, 0)
	for _, name := range b.names {
		if !reached[name] {
			unused = append(unused, name)
		}
	}

	keep := b.names
	if len(unused) > 0 {
		switch {
		case cfg.skipUnused:
			keep = make([]string, 0, len(reached))
			for _, name := range b.names {
				if reached[name] {
					keep = append(keep, name)
				}
			}
		case cfg.ignoreUnused:
			// kept, no complaint
		default:
			return nil, &UnusedProductionsError{Names: unused}
		}
	}

	return freeze(b, keep), nil
}

// findUndefinedProductions traverses every staged term tree and collects
// non-terminal references to names that are not registered.
func findUndefinedProductions(b *Builder) error {
	undefined := map[string]bool{}
	for _, name := range b.names {
		for _, ref := range collectRefs(b.bodies[name]) {
			if _, defined := b.bodies[ref]; !defined {
				undefined[ref] = true
			}
		}
	}
	if len(undefined) == 0 {
		return nil
	}

	names := make([]string, 0, len(undefined))
	for name := range undefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return &UndefinedProductionsError{Names: names}
}

// reachableProductions computes the set of production names transitively
// reachable from the root via non-terminal references, breadth-first.
func reachableProductions(b *Builder) map[string]bool {
	reached := map[string]bool{}
	queue := []string{b.names[0]}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if reached[name] {
			continue
		}
		reached[name] = true
		queue = append(queue, collectRefs(b.bodies[name])...)
	}
	return reached
}

// freeze builds the immutable snapshot, keeping the named productions in
// their original insertion order.
func freeze(b *Builder, keep []string) *Grammar {
	g := &Grammar{
		language:    b.language,
		header:      b.header,
		productions: make([]*Production, 0, len(keep)),
		index:       make(map[string]*Production, len(keep)),
	}
	for _, name := range keep {
		p := &Production{name: name, body: b.bodies[name], owner: g}
		g.productions = append(g.productions, p)
		g.index[name] = p
	}
	return g
}

// collectRefs gathers every non-terminal reference in a term tree. It is a
// TermVisitor, and doubles as the in-tree demonstration that the dispatch
// mechanism needs no access to term internals.
func collectRefs(t Term) []string {
	c := &refCollector{}
	// the collector never returns an error
	_ = Walk(t, c)
	return c.refs
}

type refCollector struct {
	refs []string
}

func (c *refCollector) VisitEpsilon() error { return nil }

func (c *refCollector) VisitLiteral(string, bool) error { return nil }

func (c *refCollector) VisitCharacterSet(*CharacterSet) error { return nil }

func (c *refCollector) VisitNonTerminal(ref string) error {
	c.refs = append(c.refs, ref)
	return nil
}

func (c *refCollector) VisitSequence(terms []Term) error { return c.walkAll(terms) }

func (c *refCollector) VisitAlternatives(terms []Term) error { return c.walkAll(terms) }

func (c *refCollector) VisitOptional(term Term) error { return Walk(term, c) }

func (c *refCollector) VisitRepetition(term Term, _, _ int, _ bool) error {
	return Walk(term, c)
}

func (c *refCollector) walkAll(terms []Term) error {
	for _, t := range terms {
		if err := Walk(t, c); err != nil {
			return err
		}
	}
	return nil
}

package grammar

// Builder accumulates named productions and metadata for a grammar under
// construction. It is intended for single-threaded, single-pass use: stage
// every production, then call Build exactly once. A Builder is not safe for
// concurrent mutation and is not validated until Build runs; only duplicate
// production names are rejected immediately.
type Builder struct {
	language string
	header   string
	names    []string // insertion order; names[0] is the implicit root
	bodies   map[string]Term
}

// NewBuilder starts a builder for the named language. The language name is set
// once and must be non-empty.
func NewBuilder(language string) *Builder {
	if language == "" {
		panic(&TermError{Op: "grammar", Reason: "empty language name"})
	}
	return &Builder{
		language: language,
		bodies:   map[string]Term{},
	}
}

// SetHeader sets the grammar's free-text header and returns the builder.
func (b *Builder) SetHeader(header string) *Builder {
	b.header = header
	return b
}

// Language returns the language name given to NewBuilder.
func (b *Builder) Language() string { return b.language }

// Production registers a production under the given name. Its body is the
// ordered choice of the given alternatives, collapsed to the bare term when
// only one is given. The first production registered becomes the grammar's
// root. Registering a name twice fails with a *DuplicateProductionError.
func (b *Builder) Production(name string, first Term, alternatives ...Term) error {
	if name == "" {
		panic(&TermError{Op: "production", Reason: "empty production name"})
	}
	if _, defined := b.bodies[name]; defined {
		return &DuplicateProductionError{Name: name}
	}
	body := OneOf(first, alternatives...)
	b.names = append(b.names, name)
	b.bodies[name] = body
	return nil
}

// Build resolves the staged productions into an immutable Grammar, validating
// references and reachability under the given options. Resolution is
// all-or-nothing: on error no Grammar is returned.
func (b *Builder) Build(options ...ResolveOption) (*Grammar, error) {
	return resolve(b, configFor(options))
}

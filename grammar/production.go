package grammar

// Production is a named grammar rule owning one term subtree. By convention
// the body is an Alternatives node; when a production was registered with a
// single alternative the body is that bare term.
type Production struct {
	name  string
	body  Term
	owner *Grammar
}

// Name returns the production's name, unique within its grammar.
func (p *Production) Name() string { return p.name }

// Body returns the production's term tree.
func (p *Production) Body() Term { return p.body }

// Grammar returns the resolved grammar owning this production. The
// back-reference exists for diagnostics only.
func (p *Production) Grammar() *Grammar { return p.owner }

func (p *Production) String() string {
	return p.name + " = " + p.body.String()
}

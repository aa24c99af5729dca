// Command ocgrammar validates XML grammar documents and exports them in
// machine- and human-readable forms.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/breakdawn/openCypher/export"
	"github.com/breakdawn/openCypher/grammar"
	"github.com/breakdawn/openCypher/xmldef"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&jsonCmd{}, "")
	subcommands.Register(&ebnfCmd{}, "")
	subcommands.Register(&schemaCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// optionFlags is the flag form of the xmldef option set, shared by every
// command that reads a grammar document.
type optionFlags struct {
	optionsFile   string
	strict        bool
	skipUnused    bool
	ignoreUnused  bool
	allowRootless bool
}

func (o *optionFlags) register(f *flag.FlagSet) {
	f.StringVar(&o.optionsFile, "options", "", "TOML file with parser options")
	f.BoolVar(&o.strict, "strict", false, "fail on unknown attributes")
	f.BoolVar(&o.skipUnused, "skip-unused", false, "silently drop unreachable productions")
	f.BoolVar(&o.ignoreUnused, "ignore-unused", false, "keep unreachable productions without error")
	f.BoolVar(&o.allowRootless, "allow-rootless", false, "accept a grammar with no productions")
}

func (o *optionFlags) collect() ([]xmldef.Option, error) {
	var options []xmldef.Option
	if o.optionsFile != "" {
		f, err := os.Open(o.optionsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if options, err = xmldef.OptionsFromTOML(f); err != nil {
			return nil, err
		}
	}
	if o.strict {
		options = append(options, xmldef.FailOnUnknownAttributes)
	}
	if o.skipUnused {
		options = append(options, xmldef.SkipUnusedProductions)
	}
	if o.ignoreUnused {
		options = append(options, xmldef.IgnoreUnusedProductions)
	}
	if o.allowRootless {
		options = append(options, xmldef.AllowRootless)
	}
	return options, nil
}

// parseArg reads the one grammar document named on the command line.
func parseArg(f *flag.FlagSet, o *optionFlags) (*grammar.Grammar, error) {
	if f.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one grammar file argument")
	}
	options, err := o.collect()
	if err != nil {
		return nil, err
	}
	return xmldef.ParseFile(f.Arg(0), options...)
}

type checkCmd struct {
	opts optionFlags
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "parse and resolve an XML grammar document" }
func (*checkCmd) Usage() string {
	return `check [-strict] [-skip-unused|-ignore-unused] [-allow-rootless] [-options file.toml] grammar.xml:
  Parse the document, resolve it, and report the outcome.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) { c.opts.register(f) }

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseArg(f, &c.opts)
	if err != nil {
		slog.Error("grammar check failed", "err", err)
		return subcommands.ExitFailure
	}

	root := "(rootless)"
	if p, ok := g.Root(); ok {
		root = p.Name()
	}
	slog.Info("grammar is valid",
		"language", g.Language(),
		"productions", len(g.Productions()),
		"root", root,
	)
	return subcommands.ExitSuccess
}

type jsonCmd struct {
	opts optionFlags
}

func (*jsonCmd) Name() string     { return "json" }
func (*jsonCmd) Synopsis() string { return "export a grammar document as JSON" }
func (*jsonCmd) Usage() string {
	return `json [options] grammar.xml:
  Resolve the document and write its JSON form to stdout.
`
}

func (c *jsonCmd) SetFlags(f *flag.FlagSet) { c.opts.register(f) }

func (c *jsonCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseArg(f, &c.opts)
	if err != nil {
		slog.Error("export failed", "err", err)
		return subcommands.ExitFailure
	}

	doc, err := export.Flatten(g)
	if err != nil {
		slog.Error("export failed", "err", err)
		return subcommands.ExitFailure
	}
	return emitJSON(doc)
}

type ebnfCmd struct {
	opts optionFlags
}

func (*ebnfCmd) Name() string     { return "ebnf" }
func (*ebnfCmd) Synopsis() string { return "render a grammar document as EBNF text" }
func (*ebnfCmd) Usage() string {
	return `ebnf [options] grammar.xml:
  Resolve the document and write its EBNF rendering to stdout.
`
}

func (c *ebnfCmd) SetFlags(f *flag.FlagSet) { c.opts.register(f) }

func (c *ebnfCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseArg(f, &c.opts)
	if err != nil {
		slog.Error("rendering failed", "err", err)
		return subcommands.ExitFailure
	}

	out, err := export.EBNF(g)
	if err != nil {
		slog.Error("rendering failed", "err", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

type schemaCmd struct{}

func (*schemaCmd) Name() string     { return "schema" }
func (*schemaCmd) Synopsis() string { return "print the JSON Schema of the JSON export format" }
func (*schemaCmd) Usage() string {
	return `schema:
  Write the JSON Schema describing the output of the json command to stdout.
`
}

func (*schemaCmd) SetFlags(*flag.FlagSet) {}

func (*schemaCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	return emitJSON(export.Schema())
}

func emitJSON(v interface{}) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("encoding failed", "err", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

package xmldef

import (
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/breakdawn/openCypher/grammar"
)

// Option adjusts parsing or resolution of an XML grammar document. The set
// combines one reader-level flag with the resolution flags of the grammar
// package; Parse splits a caller's combined list at the two boundaries, so
// the reader never sees resolution flags and the resolver never sees reader
// flags.
type Option uint

const (
	// FailOnUnknownAttributes makes unknown attributes on grammar-namespace
	// elements a parse error instead of being skipped.
	FailOnUnknownAttributes Option = iota + 1

	// SkipUnusedProductions is grammar.SkipUnusedProductions.
	SkipUnusedProductions

	// IgnoreUnusedProductions is grammar.IgnoreUnusedProductions.
	IgnoreUnusedProductions

	// AllowRootless is grammar.AllowRootless.
	AllowRootless
)

// String returns the string representation of an Option
func (o Option) String() string {
	switch o {
	case FailOnUnknownAttributes:
		return "FailOnUnknownAttributes"
	case SkipUnusedProductions:
		return "SkipUnusedProductions"
	case IgnoreUnusedProductions:
		return "IgnoreUnusedProductions"
	case AllowRootless:
		return "AllowRootless"
	default:
		return "Unknown"
	}
}

// split maps a combined option list onto the two boundaries it spans.
func split(options []Option) (strict bool, resolve []grammar.ResolveOption) {
	for _, o := range options {
		switch o {
		case FailOnUnknownAttributes:
			strict = true
		case SkipUnusedProductions:
			resolve = append(resolve, grammar.SkipUnusedProductions)
		case IgnoreUnusedProductions:
			resolve = append(resolve, grammar.IgnoreUnusedProductions)
		case AllowRootless:
			resolve = append(resolve, grammar.AllowRootless)
		}
	}
	return strict, resolve
}

var allOptions = []Option{
	FailOnUnknownAttributes,
	SkipUnusedProductions,
	IgnoreUnusedProductions,
	AllowRootless,
}

// OptionsFromProperties collects the options whose names map to a true value
// in a flat property bag. Keys are the option names (e.g.
// "SkipUnusedProductions"); values are parsed like strconv.ParseBool, with
// unparseable values treated as false.
func OptionsFromProperties(props map[string]string) []Option {
	options := make([]Option, 0, len(allOptions))
	for _, o := range allOptions {
		if on, err := strconv.ParseBool(props[o.String()]); err == nil && on {
			options = append(options, o)
		}
	}
	return options
}

// optionsFile is the TOML shape of an option bag.
type optionsFile struct {
	FailOnUnknownAttributes bool `toml:"fail_on_unknown_attributes"`
	SkipUnusedProductions   bool `toml:"skip_unused_productions"`
	IgnoreUnusedProductions bool `toml:"ignore_unused_productions"`
	AllowRootless           bool `toml:"allow_rootless"`
}

// OptionsFromTOML reads an option bag in TOML form, e.g.
//
//	skip_unused_productions = true
//	allow_rootless = true
func OptionsFromTOML(r io.Reader) ([]Option, error) {
	var f optionsFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid options file: %w", err)
	}

	var options []Option
	if f.FailOnUnknownAttributes {
		options = append(options, FailOnUnknownAttributes)
	}
	if f.SkipUnusedProductions {
		options = append(options, SkipUnusedProductions)
	}
	if f.IgnoreUnusedProductions {
		options = append(options, IgnoreUnusedProductions)
	}
	if f.AllowRootless {
		options = append(options, AllowRootless)
	}
	return options, nil
}

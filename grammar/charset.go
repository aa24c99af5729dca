package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// AnySetName is the base set matching any character.
const AnySetName = "ANY"

// CharacterSet is a term matching one character from a named base set, minus
// an optional collection of excluded code points. Base set names are not
// interpreted by this package; by convention they are Unicode general category
// names (Lu, Nd, ...) or well-known names such as AnySetName, and consumers
// give them meaning. Whether an excluded code point belongs to the base set is
// likewise not checked here.
//
// CharacterSet values are immutable; Except returns a derived set.
type CharacterSet struct {
	set    string
	except []rune
}

// CharactersOfSet creates a character set term for the named base set.
func CharactersOfSet(name string) *CharacterSet {
	if name == "" {
		panic(&TermError{Op: "charactersOfSet", Reason: "empty character set name"})
	}
	return &CharacterSet{set: name}
}

// AnyCharacter creates a character set term matching any character.
func AnyCharacter() *CharacterSet {
	return &CharacterSet{set: AnySetName}
}

// Except returns a copy of the set with the given code points excluded, in
// addition to any already excluded.
func (c *CharacterSet) Except(codePoints ...rune) *CharacterSet {
	merged := make([]rune, 0, len(c.except)+len(codePoints))
	merged = append(merged, c.except...)
	for _, cp := range codePoints {
		if !containsRune(merged, cp) {
			merged = append(merged, cp)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return &CharacterSet{set: c.set, except: merged}
}

// Set returns the name of the base set.
func (c *CharacterSet) Set() string { return c.set }

// Exclusions returns the excluded code points in ascending order. The caller
// may keep the returned slice; it is a copy.
func (c *CharacterSet) Exclusions() []rune {
	out := make([]rune, len(c.except))
	copy(out, c.except)
	return out
}

// Kind returns KindCharacterSet.
func (c *CharacterSet) Kind() TermKind { return KindCharacterSet }

func (c *CharacterSet) String() string {
	if len(c.except) == 0 {
		return "[:" + c.set + ":]"
	}
	parts := make([]string, len(c.except))
	for i, cp := range c.except {
		parts[i] = fmt.Sprintf("%q", cp)
	}
	return fmt.Sprintf("[:%s:]-[%s]", c.set, strings.Join(parts, " "))
}

func containsRune(rs []rune, r rune) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

package xmldef

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakdawn/openCypher/grammar"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<grammar language="sample" xmlns="http://thobe.org/grammar">
  <header>
    A grammar used by the reader tests.
  </header>
  <production name="statement">
    <alt>
      <non-terminal ref="assignment"/>
      <seq>PRINT <non-terminal ref="expression"/></seq>
    </alt>
  </production>
  <production name="assignment">
    <non-terminal ref="identifier"/> = <non-terminal ref="expression"/>
  </production>
  <production name="expression">
    <non-terminal ref="identifier"/>
    <repeat min="0">
      <literal value="+"/>
      <non-terminal ref="identifier"/>
    </repeat>
  </production>
  <production name="identifier">
    <repeat min="1" max="16">
      <character set="ID"/>
    </repeat>
  </production>
</grammar>
`

func Test_Parse_SampleDocument(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal("sample", g.Language())
	assert.Equal("A grammar used by the reader tests.", g.Header())

	for _, name := range []string{"statement", "assignment", "expression", "identifier"} {
		assert.True(g.HasProduction(name), "missing production %q", name)
	}

	root, ok := g.Root()
	require.True(t, ok)
	assert.Equal("statement", root.Name())
	assert.Equal(grammar.KindAlternatives, root.Body().Kind())

	// mixed character data becomes literals inside a sequence
	assignment, _ := g.Production("assignment")
	assert.Equal(`identifier "=" expression`, assignment.Body().String())

	identifier, _ := g.Production("identifier")
	assert.Equal("{[:ID:]}1..16", identifier.Body().String())
}

func Test_Parse_EmptyProductionBodyIsEpsilon(t *testing.T) {
	doc := `<grammar language="l" xmlns="http://thobe.org/grammar">
	  <production name="nothing"/>
	</grammar>`

	g, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	p, ok := g.Production("nothing")
	require.True(t, ok)
	assert.Equal(t, grammar.KindEpsilon, p.Body().Kind())
}

func Test_Parse_CharacterExclusions(t *testing.T) {
	doc := `<grammar language="l" xmlns="http://thobe.org/grammar">
	  <production name="char">
	    <character>
	      <except codePoint="10"/>
	      <except literal="'"/>
	    </character>
	  </production>
	</grammar>`

	g, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	set, err := grammar.TransformProduction(g, "char",
		func(_ struct{}, p *grammar.Production) (*grammar.CharacterSet, error) {
			return charSetOf(p.Body())
		}, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, grammar.AnySetName, set.Set())
	assert.Equal(t, []rune{'\n', '\''}, set.Exclusions())
}

// charSetOf extracts a bare character-set body.
func charSetOf(t grammar.Term) (*grammar.CharacterSet, error) {
	set, ok := t.(*grammar.CharacterSet)
	if !ok {
		return nil, errors.New("body is not a character set")
	}
	return set, nil
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		doc       string
		options   []Option
		expectMsg string
	}{
		{
			name:      "malformed xml",
			doc:       `<grammar language="l" xmlns="http://thobe.org/grammar"><production`,
			expectMsg: "XML syntax error",
		},
		{
			name:      "wrong root namespace",
			doc:       `<grammar language="l" xmlns="http://example.com/other"/>`,
			expectMsg: "want <grammar>",
		},
		{
			name:      "missing language",
			doc:       `<grammar xmlns="http://thobe.org/grammar"/>`,
			expectMsg: "no language attribute",
		},
		{
			name: "unknown element",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <rule name="x"/>
			</grammar>`,
			expectMsg: "unexpected element <rule>",
		},
		{
			name: "production without name",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <production>x</production>
			</grammar>`,
			expectMsg: "no name attribute",
		},
		{
			name: "empty alt",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <production name="p"><alt/></production>
			</grammar>`,
			expectMsg: "<alt> element has no content",
		},
		{
			name: "repeat bounds inverted",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <production name="p"><repeat min="3" max="1">x</repeat></production>
			</grammar>`,
			expectMsg: "maximum 1 is less than minimum 3",
		},
		{
			name: "bad repeat attribute",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <production name="p"><repeat min="lots">x</repeat></production>
			</grammar>`,
			expectMsg: "<repeat> min attribute",
		},
		{
			name: "duplicate production",
			doc: `<grammar language="l" xmlns="http://thobe.org/grammar">
			  <production name="p">x</production>
			  <production name="p">y</production>
			</grammar>`,
			expectMsg: `production "p" is already defined`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Parse(strings.NewReader(tc.doc), tc.options...)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Contains(t, err.Error(), tc.expectMsg)
		})
	}
}

func Test_Parse_UnknownAttributeStrictness(t *testing.T) {
	doc := `<grammar language="l" xmlns="http://thobe.org/grammar">
	  <production name="p" legacy="true">x</production>
	</grammar>`

	g, err := Parse(strings.NewReader(doc))
	require.NoError(t, err, "unknown attributes are skipped by default")
	assert.True(t, g.HasProduction("p"))

	_, err = Parse(strings.NewReader(doc), FailOnUnknownAttributes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown attribute "legacy"`)
}

func Test_Parse_ForeignNamespaceSkipped(t *testing.T) {
	doc := `<grammar language="l" xmlns="http://thobe.org/grammar"
	         xmlns:gen="http://thobe.org/stringgeneration">
	  <gen:config case="unicode"/>
	  <production name="p" gen:weight="5">
	    <gen:hint>ignored</gen:hint>
	    x
	  </production>
	</grammar>`

	g, err := Parse(strings.NewReader(doc), FailOnUnknownAttributes)
	require.NoError(t, err, "foreign-namespace content is skipped even in strict mode")

	p, ok := g.Production("p")
	require.True(t, ok)
	assert.Equal(t, `"x"`, p.Body().String())
}

func Test_Parse_ResolutionErrorsPropagate(t *testing.T) {
	doc := `<grammar language="l" xmlns="http://thobe.org/grammar">
	  <production name="a"><non-terminal ref="ghost"/></production>
	</grammar>`

	_, err := Parse(strings.NewReader(doc))
	var undef *grammar.UndefinedProductionsError
	require.True(t, errors.As(err, &undef), "got %v", err)
	assert.Equal(t, []string{"ghost"}, undef.Names)

	unusedDoc := `<grammar language="l" xmlns="http://thobe.org/grammar">
	  <production name="a">x</production>
	  <production name="b">y</production>
	</grammar>`

	_, err = Parse(strings.NewReader(unusedDoc))
	var unused *grammar.UnusedProductionsError
	require.True(t, errors.As(err, &unused))

	g, err := Parse(strings.NewReader(unusedDoc), SkipUnusedProductions)
	require.NoError(t, err)
	assert.False(t, g.HasProduction("b"))
}

func Test_OptionsFromProperties(t *testing.T) {
	options := OptionsFromProperties(map[string]string{
		"SkipUnusedProductions":   "true",
		"AllowRootless":           "1",
		"IgnoreUnusedProductions": "false",
		"NoSuchOption":            "true",
	})
	assert.Equal(t, []Option{SkipUnusedProductions, AllowRootless}, options)
}

func Test_OptionsFromTOML(t *testing.T) {
	options, err := OptionsFromTOML(strings.NewReader(`
fail_on_unknown_attributes = true
allow_rootless = true
skip_unused_productions = false
`))
	require.NoError(t, err)
	assert.Equal(t, []Option{FailOnUnknownAttributes, AllowRootless}, options)

	_, err = OptionsFromTOML(strings.NewReader(`not toml at all ===`))
	assert.Error(t, err)
}

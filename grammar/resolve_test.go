package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// production is a staged name/body pair for table tests.
type production struct {
	name string
	body Term
}

func buildFrom(t *testing.T, productions []production, options ...ResolveOption) (*Grammar, error) {
	t.Helper()
	b := NewBuilder("test")
	for _, p := range productions {
		require.NoError(t, b.Production(p.name, p.body))
	}
	return b.Build(options...)
}

func Test_Resolve(t *testing.T) {
	allOptionCombos := [][]ResolveOption{
		nil,
		{SkipUnusedProductions},
		{IgnoreUnusedProductions},
		{AllowRootless},
		{SkipUnusedProductions, AllowRootless},
		{IgnoreUnusedProductions, AllowRootless},
	}

	testCases := []struct {
		name        string
		productions []production
		options     []ResolveOption
		expectNames []string // nil means expect an error
		expectErr   any      // target for errors.As
	}{
		{
			name: "closed grammar resolves",
			productions: []production{
				{"A", NonTerminal("B")},
				{"B", Literal("b")},
			},
			expectNames: []string{"A", "B"},
		},
		{
			name: "unused production errors by default",
			productions: []production{
				{"A", Literal("x")},
				{"B", NonTerminal("A")},
			},
			expectErr: new(*UnusedProductionsError),
		},
		{
			name: "unused production pruned with skip",
			productions: []production{
				{"A", Literal("x")},
				{"B", NonTerminal("A")},
			},
			options:     []ResolveOption{SkipUnusedProductions},
			expectNames: []string{"A"},
		},
		{
			name: "unused production kept with ignore",
			productions: []production{
				{"A", Literal("x")},
				{"B", NonTerminal("A")},
			},
			options:     []ResolveOption{IgnoreUnusedProductions},
			expectNames: []string{"A", "B"},
		},
		{
			name:      "empty grammar errors by default",
			expectErr: new(*RootlessGrammarError),
		},
		{
			name:        "empty grammar accepted with rootless option",
			options:     []ResolveOption{AllowRootless},
			expectNames: []string{},
		},
		{
			name: "references inside nested terms are followed",
			productions: []production{
				{"Root", Sequence(Optional(NonTerminal("A")), ZeroOrMore(OneOf(NonTerminal("B"), Literal("x"))))},
				{"A", Literal("a")},
				{"B", RepeatRange(1, 2, NonTerminal("C"))},
				{"C", Epsilon()},
			},
			expectNames: []string{"Root", "A", "B", "C"},
		},
		{
			name: "mutually recursive productions are reachable",
			productions: []production{
				{"A", OneOf(NonTerminal("B"), Literal("a"))},
				{"B", NonTerminal("A")},
			},
			expectNames: []string{"A", "B"},
		},
		{
			name: "self-reference does not make a production used",
			productions: []production{
				{"A", Literal("a")},
				{"B", NonTerminal("B")},
			},
			expectErr: new(*UnusedProductionsError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := buildFrom(t, tc.productions, tc.options...)

			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(errors.As(err, tc.expectErr), "wrong error type: %v", err)
				assert.Nil(g, "a failed resolution must not yield a grammar")
				return
			}

			require.NoError(t, err)
			require.NotNil(t, g)
			assert.Len(g.Productions(), len(tc.expectNames))
			for i, p := range g.Productions() {
				assert.Equal(tc.expectNames[i], p.Name(), "insertion order must survive resolution")
			}
			for _, name := range tc.expectNames {
				assert.True(g.HasProduction(name))
			}
			assert.False(g.HasProduction("NoSuchProduction"))
		})
	}

	t.Run("undefined reference fails under every option combination", func(t *testing.T) {
		for _, options := range allOptionCombos {
			g, err := buildFrom(t, []production{
				{"A", Sequence(Literal("a"), NonTerminal("Missing"))},
			}, options...)

			require.Error(t, err, "options %v", options)
			var undef *UndefinedProductionsError
			require.True(t, errors.As(err, &undef), "options %v: wrong error type: %v", options, err)
			assert.Equal(t, []string{"Missing"}, undef.Names)
			assert.Nil(t, g)
		}
	})
}

func Test_Resolve_UndefinedNamesSortedAndDeduped(t *testing.T) {
	_, err := buildFrom(t, []production{
		{"Root", Sequence(NonTerminal("Zed"), NonTerminal("Alpha"), NonTerminal("Zed"))},
	})

	var undef *UndefinedProductionsError
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, []string{"Alpha", "Zed"}, undef.Names)
}

func Test_Resolve_UndefinedCheckedBeforeUnused(t *testing.T) {
	// B is unreachable and also dangling; the referential error must win.
	_, err := buildFrom(t, []production{
		{"A", Literal("a")},
		{"B", NonTerminal("Missing")},
	})

	var undef *UndefinedProductionsError
	require.True(t, errors.As(err, &undef), "got %v", err)
}

func Test_Resolve_Idempotent(t *testing.T) {
	assert := assert.New(t)

	stage := func() []production {
		return []production{
			{"A", OneOf(Literal("x"), NonTerminal("B"))},
			{"B", ZeroOrMore(Literal("y"))},
			{"C", NonTerminal("A")},
		}
	}

	first, err := buildFrom(t, stage(), SkipUnusedProductions)
	require.NoError(t, err)
	second, err := buildFrom(t, stage(), SkipUnusedProductions)
	require.NoError(t, err)

	firstNames := make([]string, 0)
	for _, p := range first.Productions() {
		firstNames = append(firstNames, p.Name())
	}
	secondNames := make([]string, 0)
	for _, p := range second.Productions() {
		secondNames = append(secondNames, p.Name())
	}
	assert.Equal(firstNames, secondNames)
	assert.Equal([]string{"A", "B"}, firstNames, "C pruned both times")

	for _, name := range firstNames {
		fp, _ := first.Production(name)
		sp, _ := second.Production(name)
		assert.Equal(fp.Body().String(), sp.Body().String())
	}
}

// nameRecorder records visited production names in order.
type nameRecorder struct {
	names []string
	stop  error
}

func (r *nameRecorder) VisitProduction(p *Production) error {
	if r.stop != nil {
		return r.stop
	}
	r.names = append(r.names, p.Name())
	return nil
}

func Test_Grammar_Accept(t *testing.T) {
	assert := assert.New(t)

	g, err := buildFrom(t, []production{
		{"A", NonTerminal("C")},
		{"B", NonTerminal("A")},
		{"C", Literal("c")},
	}, SkipUnusedProductions)
	require.NoError(t, err)

	r := &nameRecorder{}
	require.NoError(t, g.Accept(r))
	assert.Equal([]string{"A", "C"}, r.names,
		"each surviving production visited exactly once, in insertion order")
}

func Test_Grammar_Accept_PropagatesVisitorError(t *testing.T) {
	g, err := buildFrom(t, []production{{"A", Literal("a")}})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = g.Accept(&nameRecorder{stop: boom})
	assert.Same(t, boom, err, "visitor errors must pass through unwrapped")
}

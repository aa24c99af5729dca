package grammar

// ResolveOption relaxes one of the policy checks applied when a Builder is
// resolved into a Grammar. Options are independent and composable; none of
// them affects the undefined-reference check, which always applies.
type ResolveOption uint

const (
	// SkipUnusedProductions silently removes productions that are not
	// reachable from the root from the resolved grammar.
	SkipUnusedProductions ResolveOption = iota + 1

	// IgnoreUnusedProductions keeps unreachable productions in the resolved
	// grammar without raising an error.
	IgnoreUnusedProductions

	// AllowRootless accepts a grammar with no productions at all.
	AllowRootless
)

// String returns the string representation of a ResolveOption
func (o ResolveOption) String() string {
	switch o {
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

// resolveConfig is the flag form of an option list. When both
// SkipUnusedProductions and IgnoreUnusedProductions are supplied, pruning
// wins.
type resolveConfig struct {
	skipUnused    bool
	ignoreUnused  bool
	allowRootless bool
}

func configFor(options []ResolveOption) resolveConfig {
	var c resolveConfig
	for _, o := range options {
		switch o {
		case SkipUnusedProductions:
			c.skipUnused = true
		case IgnoreUnusedProductions:
			c.ignoreUnused = true
		case AllowRootless:
			c.allowRootless = true
		}
	}
	return c
}

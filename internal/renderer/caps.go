package renderer

const (
	defaultFactsCap         = 25
	defaultPrefsCap         = 15
	defaultEntitiesCap      = 12
	defaultOpenLoopsCap     = 10
	defaultContradictionsCap = 8

	minFactsCap = 5
	minBudget   = 400

	valueStringifyCap = 220
)

// sectionCaps tracks the current per-section item limit during budget
// enforcement.
type sectionCaps struct {
	Facts         int
	Prefs         int
	Entities      int
	OpenLoops     int
	Contradictions int
}

func defaultCaps() sectionCaps {
	return sectionCaps{
		Facts:         defaultFactsCap,
		Prefs:         defaultPrefsCap,
		Entities:      defaultEntitiesCap,
		OpenLoops:     defaultOpenLoopsCap,
		Contradictions: defaultContradictionsCap,
	}
}

// trimOnce decrements exactly one section's cap, following a fixed
// priority order for budget enforcement: contradictions, open loops,
// entities, prefs, facts (never below minFactsCap). Returns false once
// every section is already at its floor.
func (c *sectionCaps) trimOnce() bool {
	switch {
	case c.Contradictions > 0:
		c.Contradictions--
	case c.OpenLoops > 0:
		c.OpenLoops--
	case c.Entities > 0:
		c.Entities--
	case c.Prefs > 0:
		c.Prefs--
	case c.Facts > minFactsCap:
		c.Facts--
	default:
		return false
	}
	return true
}

func capSlice(n, limit int) int {
	if n < limit {
		return n
	}
	return limit
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/ashita-ai/kioku"
	"github.com/ashita-ai/kioku/internal/util"
)

// ExportContext renders passport into a plain-text briefing bounded by
// budgetChars (clamped to a 400 minimum). Sections appear in a fixed order
// — Facts, Preferences, Key entities, Open loops, Recent updates — each
// ranked and capped, with iterative cap-trimming and a hard-truncation
// fallback if the budget still can't be met.
func ExportContext(p *kioku.Passport, budgetChars int, header string) string {
	if budgetChars < minBudget {
		budgetChars = minBudget
	}

	facts := rankFacts(p.Facts)
	prefs := rankPrefs(p.Prefs)
	loops := rankOpenLoops(p.OpenLoops)
	contradictions := rankContradictions(p.Contradictions)

	caps := defaultCaps()
	for {
		text := assemble(p, header, caps, facts, prefs, p.Entities, loops, contradictions)
		if len([]rune(text)) <= budgetChars {
			return text
		}
		if !caps.trimOnce() {
			runes := []rune(text)
			if len(runes) <= budgetChars {
				return text
			}
			return string(runes[:budgetChars-1]) + "…"
		}
	}
}

func assemble(p *kioku.Passport, header string, caps sectionCaps, facts []kioku.Fact, prefs []kioku.Preference, entities []kioku.Entity, loops []kioku.OpenLoop, contradictions []kioku.Contradiction) string {
	var b strings.Builder

	if header != "" {
		b.WriteString(header)
		b.WriteString("\n")
	}
	if p.UserKey != "" {
		fmt.Fprintf(&b, "User: %s\n", p.UserKey)
	}
	fmt.Fprintf(&b, "Updated: %s\n", p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))

	writeSection(&b, "Facts", capSlice(len(facts), caps.Facts), func(i int) string {
		f := facts[i]
		return fmt.Sprintf("- %s: %s", f.Key, renderValue(f.Value))
	})
	writeSection(&b, "Preferences", capSlice(len(prefs), caps.Prefs), func(i int) string {
		pr := prefs[i]
		return fmt.Sprintf("- %s: %s", pr.Key, renderValue(pr.Value))
	})
	writeSection(&b, "Key entities", capSlice(len(entities), caps.Entities), func(i int) string {
		return "- " + renderEntity(entities[i])
	})
	writeSection(&b, "Open loops", capSlice(len(loops), caps.OpenLoops), func(i int) string {
		return "- " + renderValue(loops[i].Item)
	})
	writeSection(&b, "Recent updates", capSlice(len(contradictions), caps.Contradictions), func(i int) string {
		c := contradictions[i]
		return fmt.Sprintf("- %s: %s -> %s", c.Key, renderValue(c.Old), renderValue(c.New))
	})

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, n int, line func(i int) string) {
	if n <= 0 {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	for i := 0; i < n; i++ {
		b.WriteString(line(i))
		b.WriteString("\n")
	}
}

func renderValue(v any) string {
	return util.SafeStringify(v, 20, 20, valueStringifyCap)
}

func renderEntity(e kioku.Entity) string {
	if e.Type != "" && e.Type != kioku.EntityOther {
		return fmt.Sprintf("%s (%s)", e.Name, e.Type)
	}
	return e.Name
}

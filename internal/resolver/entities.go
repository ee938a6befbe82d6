package resolver

import (
	"strings"

	"github.com/ashita-ai/kioku"
)

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mergeEntities applies entity coalescence: name/alias indices built fresh
// from the current list, each incoming entity matched by name-equals-name,
// name-equals-alias, or alias-equals-(name|alias), in that priority order.
func mergeEntities(entities []kioku.Entity, incoming []kioku.Entity) ([]kioku.Entity, int) {
	nameIndex := make(map[string]int, len(entities))
	aliasIndex := make(map[string]string, len(entities))
	for i, e := range entities {
		key := lowerTrim(e.Name)
		nameIndex[key] = i
		for _, a := range e.Aliases {
			aliasIndex[lowerTrim(a)] = key
		}
	}

	touched := 0
	for _, e := range incoming {
		ownerKey, found := findOwner(e, nameIndex, aliasIndex)
		if !found {
			entities = append(entities, e)
			idx := len(entities) - 1
			key := lowerTrim(e.Name)
			nameIndex[key] = idx
			for _, a := range e.Aliases {
				aliasIndex[lowerTrim(a)] = key
			}
			touched++
			continue
		}

		idx := nameIndex[ownerKey]
		mergeEntityInto(&entities[idx], e, ownerKey, aliasIndex)
		touched++
	}

	return entities, touched
}

func findOwner(e kioku.Entity, nameIndex map[string]int, aliasIndex map[string]string) (string, bool) {
	key := lowerTrim(e.Name)
	if _, ok := nameIndex[key]; ok {
		return key, true
	}
	if owner, ok := aliasIndex[key]; ok {
		return owner, true
	}
	for _, a := range e.Aliases {
		ak := lowerTrim(a)
		if _, ok := nameIndex[ak]; ok {
			return ak, true
		}
		if owner, ok := aliasIndex[ak]; ok {
			return owner, true
		}
	}
	return "", false
}

// mergeEntityInto folds incoming into *existing in place: canonical name is
// preserved, aliases are unioned preserving first-seen order and
// case-insensitive uniqueness, and type is upgraded from "other" to a more
// specific incoming type.
func mergeEntityInto(existing *kioku.Entity, incoming kioku.Entity, ownerKey string, aliasIndex map[string]string) {
	seen := make(map[string]bool, len(existing.Aliases)+len(incoming.Aliases)+1)
	seen[lowerTrim(existing.Name)] = true
	for _, a := range existing.Aliases {
		seen[lowerTrim(a)] = true
	}

	addAlias := func(a string) {
		key := lowerTrim(a)
		if key == "" || seen[key] {
			return
		}
		existing.Aliases = append(existing.Aliases, a)
		seen[key] = true
		aliasIndex[key] = ownerKey
	}

	if lowerTrim(incoming.Name) != lowerTrim(existing.Name) {
		addAlias(incoming.Name)
	}
	for _, a := range incoming.Aliases {
		addAlias(a)
	}

	if existing.Type == kioku.EntityOther && incoming.Type != "" && incoming.Type != kioku.EntityOther {
		existing.Type = incoming.Type
	}
}

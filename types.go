// Package kioku distills heterogeneous, weakly-structured records —
// free-form transcripts, document-store objects, key/value tree snapshots,
// and relational row envelopes — into a Passport: a compact, portable,
// append-refined cognitive snapshot of what is currently believed about a
// user. A Passport is suitable for injection as structured context into a
// downstream generative assistant.
//
// Construct a Pipeline with New() and functional options, then drive it
// through Ingest, Extract, and Merge (or call Process to run all three), and
// render on demand with Render:
//
//	p, err := kioku.New(kioku.WithExtractor(myExtractor))
//	if err != nil { ... }
//	passport := &kioku.Passport{Version: "1.0"}
//	stats, err := p.Process(ctx, passport, rawInput, "", nil)
//	context := p.Render(passport, 4000, "User context")
//
// The import graph has no internal split: unlike a multi-tenant service,
// this library has no persistence or transport boundary to hide behind —
// the Passport *is* the public contract, so its fields live here at the
// package root rather than behind a conversion layer.
package kioku

import "time"

// SourceKind enumerates the provenance categories a SourceRef may carry.
type SourceKind string

const (
	SourceTranscript     SourceKind = "transcript"
	SourceDocumentStore  SourceKind = "document-store"
	SourceKVTree         SourceKind = "kv-tree"
	SourceRelational     SourceKind = "relational"
	SourceChat           SourceKind = "chat"
	SourceForm           SourceKind = "form"
	SourceUnknown        SourceKind = "unknown"
)

// EntityType enumerates the named-entity categories the resolver recognizes.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityProject      EntityType = "project"
	EntityProduct      EntityType = "product"
	EntityPlace        EntityType = "place"
	EntityTool         EntityType = "tool"
	EntitySkill        EntityType = "skill"
	EntityConcept      EntityType = "concept"
	EntityOther        EntityType = "other"
)

// DefaultConfidence is the confidence a Fact or Preference carries when the
// extractor (or a caller constructing one by hand) doesn't supply one.
const DefaultConfidence = 0.7

// Interaction is the canonical input unit consumed by the extractor. It is
// the only surface the extractor ever sees: Data is retained for hashing and
// evidence, but is never sent to a model.
type Interaction struct {
	ID     string         `json:"id,omitempty"`
	TS     time.Time      `json:"ts"`
	Type   string         `json:"type"`
	Text   string         `json:"text"`
	Source string         `json:"source,omitempty"`
	Data   any            `json:"data,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// ShortText truncates Text at maxChars runes with a trailing ellipsis,
// matching the limit the extractor prompt is built with.
func (in Interaction) ShortText(maxChars int) string {
	runes := []rune(in.Text)
	if len(runes) <= maxChars {
		return in.Text
	}
	return string(runes[:maxChars]) + "…"
}

// SourceRef is the provenance record attached to a Passport. A Passport
// carries at most one SourceRef per id; ingesting a new one with the same id
// replaces the old one.
type SourceRef struct {
	ID     string     `json:"id"`
	Kind   SourceKind `json:"kind"`
	TS     time.Time  `json:"ts"`
	Hash   string     `json:"hash"`
	Source string     `json:"source,omitempty"`
}

// Fact is a current belief: "what is true." Preference has an identical
// shape and is used for "what the user likes/wants."
type Fact struct {
	Key        string    `json:"key"`
	Value      any       `json:"value"`
	TS         time.Time `json:"ts"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source,omitempty"`
}

// Preference has the same shape as Fact; the distinction is semantic only.
type Preference struct {
	Key        string    `json:"key"`
	Value      any       `json:"value"`
	TS         time.Time `json:"ts"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source,omitempty"`
}

// Entity is a named thing the Passport has learned to recognize: a person,
// tool, project, etc. Aliases is ordered and case-insensitively unique.
type Entity struct {
	Name    string     `json:"name"`
	Type    EntityType `json:"type"`
	Aliases []string   `json:"aliases,omitempty"`
}

// OpenLoop is an unresolved item: a question, a TODO, a missing detail.
type OpenLoop struct {
	Item   string    `json:"item"`
	TS     time.Time `json:"ts"`
	Source string    `json:"source,omitempty"`
}

// Contradiction is an immutable, append-only record of a resolved conflict:
// two non-equal values observed for the same key, with their timestamps and
// sources. TsOld is always <= TsNew.
type Contradiction struct {
	Key        string    `json:"key"`
	Old        any       `json:"old"`
	New        any       `json:"new"`
	TsOld      time.Time `json:"ts_old"`
	TsNew      time.Time `json:"ts_new"`
	SourceOld  string    `json:"source_old,omitempty"`
	SourceNew  string    `json:"source_new,omitempty"`
}

// Passport is the aggregate cognitive snapshot. It is created empty by the
// caller and mutated only through Pipeline.Ingest and Pipeline.Merge (or the
// package-level helpers those wrap); nothing else should append to its
// slices directly, or the uniqueness and ordering invariants documented on
// each field can be violated.
//
// Uniqueness invariants: at most one Fact per normalized key; at most one
// Preference per normalized key; Entities unique under "same name or
// name-equals-any-alias, case-insensitive, trimmed"; OpenLoops unique under
// "whitespace-collapsed, lowercase Item equality"; SourceRefs unique by ID.
//
// Ordering invariants (maintained after every merge): Facts and Prefs sorted
// by (Key asc, TS desc); Entities by (name-key asc, Type asc); OpenLoops by
// (TS desc, item-lower asc); Contradictions by (Key asc, TsNew desc).
type Passport struct {
	Version       string          `json:"version"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UserKey       string          `json:"user_key,omitempty"`
	Facts         []Fact          `json:"facts"`
	Prefs         []Preference    `json:"prefs"`
	Entities      []Entity        `json:"entities"`
	OpenLoops     []OpenLoop      `json:"open_loops"`
	Contradictions []Contradiction `json:"contradictions"`
	Sources       []SourceRef     `json:"sources"`
	Meta          map[string]any  `json:"meta,omitempty"`
}

// Touch refreshes UpdatedAt. Called at the end of every mutation that
// completes (Ingest's SourceRef upserts, Merge's resolved update).
func (p *Passport) Touch(now time.Time) {
	p.UpdatedAt = now
}

// UpsertSource inserts ref, or replaces the existing SourceRef with the same
// ID. Returns true if an existing ref was replaced.
func (p *Passport) UpsertSource(ref SourceRef) bool {
	for i, existing := range p.Sources {
		if existing.ID == ref.ID {
			p.Sources[i] = ref
			return true
		}
	}
	p.Sources = append(p.Sources, ref)
	return false
}

// ResolveStats counts what a single MergePassportUpdate call actually did,
// for callers that want to log or assert on merge outcomes without
// re-diffing the Passport themselves.
type ResolveStats struct {
	FactsUpserted        int `json:"facts_upserted"`
	PrefsUpserted        int `json:"prefs_upserted"`
	EntitiesTouched      int `json:"entities_touched"`
	OpenLoopsAdded       int `json:"open_loops_added"`
	ContradictionsAdded  int `json:"contradictions_added"`
}

// PassportUpdate is the candidate update a single extraction yields: the
// facts/preferences/entities/open-loops believed to be present in one
// Interaction's text, ready to merge into a Passport.
type PassportUpdate struct {
	Facts     []Fact       `json:"facts"`
	Prefs     []Preference `json:"prefs"`
	Entities  []Entity     `json:"entities"`
	OpenLoops []OpenLoop   `json:"open_loops"`
}

package profile

import (
	"strings"
)

// Tier is the match strength label derived from a score.
type Tier string

// Match tiers, from strongest to weakest.
const (
	TierPerfect Tier = "Perfect Match"
	TierHigh    Tier = "High Match"
	TierMedium  Tier = "Medium Match"
	TierLow     Tier = "Low Match"
)

// Score thresholds. Each bound is inclusive for the higher tier.
const (
	perfectScore   = 1.0
	highScoreMin   = 0.8
	mediumScoreMin = 0.6
)

// Severity is the colour class of a tier badge.
type Severity string

// Badge severities.
const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// TierForScore classifies a match score.
func TierForScore(score float64) Tier {
	switch {
	case score == perfectScore:
		return TierPerfect
	case score >= highScoreMin:
		return TierHigh
	case score >= mediumScoreMin:
		return TierMedium
	default:
		return TierLow
	}
}

// Severity returns the badge colour class for the tier.
func (t Tier) Severity() Severity {
	switch t {
	case TierPerfect:
		return SeverityOK
	case TierHigh:
		return SeverityWarning
	case TierMedium, TierLow:
		return SeverityCritical
	}
	return SeverityCritical
}

// NoteCategory labels a free-text official note.
type NoteCategory string

// Note categories in priority order; OfficialNote is the fallback.
const (
	NoteEUSanctions      NoteCategory = "EU Sanctions"
	NoteUkraineSanctions NoteCategory = "Ukraine Sanctions"
	NoteCorruption       NoteCategory = "Corruption Allegations"
	NoteListing          NoteCategory = "Listing Information"
	NoteDisqualification NoteCategory = "Disqualification"
	NoteOfficial         NoteCategory = "Official Note"
)

type noteRule struct {
	category NoteCategory
	triggers []string
}

// noteRules is checked top to bottom; the first rule with a matching
// case-sensitive substring wins.
//
//nolint:gochecknoglobals // Read-only lookup table.
var noteRules = []noteRule{
	{NoteEUSanctions, []string{"EU", "European"}},
	{NoteUkraineSanctions, []string{"Ukraine"}},
	{NoteCorruption, []string{"corruption", "Corruption"}},
	{NoteListing, []string{"Date of listing"}},
	{NoteDisqualification, []string{"Disqualified"}},
}

// CategorizeNote labels a note by keyword. The label is a heuristic: a note
// matching several rules gets the first one.
func CategorizeNote(note string) NoteCategory {
	for _, rule := range noteRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(note, trigger) {
				return rule.category
			}
		}
	}
	return NoteOfficial
}

// NormalizeDataset turns a dataset identifier into a display tag.
func NormalizeDataset(id string) string {
	return strings.ToUpper(strings.ReplaceAll(id, "_", " "))
}

// DatasetSummary is the heading above the dataset tags.
func DatasetSummary(count int) string {
	return "Listed in " + FormatCount(count) + " Datasets"
}

// TagKind distinguishes canonical names from aliases.
type TagKind string

// Tag kinds.
const (
	TagName  TagKind = "name"
	TagAlias TagKind = "alias"
)

// Tag is one entry in the names and aliases list.
type Tag struct {
	Text string  `json:"text"`
	Kind TagKind `json:"kind"`
}

// MergeNames lists every canonical name, then every alias, each group in
// upstream order. Duplicates are kept.
func MergeNames(names, aliases []string) []Tag {
	tags := make([]Tag, 0, len(names)+len(aliases))
	for _, n := range names {
		tags = append(tags, Tag{Text: n, Kind: TagName})
	}
	for _, a := range aliases {
		tags = append(tags, Tag{Text: a, Kind: TagAlias})
	}
	return tags
}

// Package normalize turns a parsed character sheet into a Summary: the
// filtered attributes, skills joined to their groups, limits with modifiers,
// magic and resonance sections, augmentations, vehicles and gear.
package normalize

import (
	"chummerview/internal/parser"
	"chummerview/internal/rules"
)

// DiagnosticKind names a condition the normalizer tolerated but a reviewer
// may want to know about.
type DiagnosticKind string

const (
	UnknownSkillAttribute  DiagnosticKind = "unknown_skill_attribute"
	UnresolvedPlaceholder  DiagnosticKind = "unresolved_placeholder"
	DroppedGradeEntry      DiagnosticKind = "dropped_grade_entry"
	DuplicateLimitModifier DiagnosticKind = "duplicate_limit_modifier"
)

type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Message string
}

// Normalize builds the Summary of doc. It reads doc without changing it and
// gives identical output for identical input.
func Normalize(doc *parser.Document) (*Summary, error) {
	summary, _, err := Inspect(doc)
	return summary, err
}

// Inspect is Normalize plus the diagnostics collected while building.
func Inspect(doc *parser.Document) (*Summary, []Diagnostic, error) {
	c := doc.Character()
	if c == nil {
		return nil, nil, parser.ErrNoCharacter
	}

	b := &builder{raw: decodeCharacter(c)}
	return b.build(), b.diagnostics, nil
}

// builder carries the state of one normalization. It is created per call.
type builder struct {
	raw         *rawCharacter
	diagnostics []Diagnostic

	// attrText maps attribute names to their raw total for placeholder
	// substitution; attrValue holds the same totals as integers.
	attrText  map[string]string
	attrValue rules.Attributes
}

func (b *builder) report(kind DiagnosticKind, subject, message string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{Kind: kind, Subject: subject, Message: message})
}

func (b *builder) build() *Summary {
	rc := b.raw
	s := &Summary{
		Name:      rc.Alias,
		Metatype:  rc.Metatype,
		Karma:     rc.Karma,
		Nuyen:     rc.Nuyen,
		Gear:      []Gear{},
		Vehicles:  []Vehicle{},
		Cyberware: []Augmentation{},
		Bioware:   []Augmentation{},
	}

	s.Attributes = b.attributes()
	mods := b.powerMods()
	b.applyAttributeMods(s.Attributes, mods)

	s.Limits = b.limits(mods)
	if _, ok := b.attrValue["REA"]; ok {
		s.Initiative = rules.CharacterInitiative(b.attrValue["REA"], b.attrValue["INT"]).String()
	}
	s.ConditionMonitor = b.conditionMonitor()

	s.ComplexForms = b.complexForms()
	s.Spells = b.spells()
	s.Spirits, s.Sprites = b.spirits()
	s.AdeptPowers = b.adeptPowers()
	b.grades(s)

	s.Gear = b.collectGear()
	s.Vehicles = b.vehicles()
	s.Cyberware, s.Bioware = b.augmentations()

	s.Skills = b.skills(mods)
	return s
}

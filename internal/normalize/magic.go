package normalize

import (
	"fmt"

	"chummerview/internal/parser"
	"chummerview/internal/rules"
)

func (b *builder) conditionMonitor() *ConditionMonitor {
	cv := b.raw.Calculated
	if cv == nil {
		return nil
	}
	cm := rules.ConditionMonitor{
		Physical: rules.Track{Boxes: cv.PhysicalCM, Overflow: cv.PhysicalCMOverflow},
		Stun:     rules.Track{Boxes: cv.StunCM, Overflow: cv.StunCMOverflow},
	}.Damage(b.raw.PhysicalFilled, b.raw.StunFilled)

	return &ConditionMonitor{
		Physical: cm.Physical,
		Stun:     cm.Stun,
		Modifier: cm.Modifier(),
	}
}

func (b *builder) spells() []Spell {
	var out []Spell
	for _, sp := range b.raw.Spells {
		out = append(out, Spell{
			Name:     sp.Name,
			Category: sp.Category,
			Type:     sp.Type,
			Range:    sp.Range,
			Damage:   sp.Damage,
			Duration: sp.Duration,
			DV:       sp.DV,
			Extra:    sp.Extra,
			Source:   b.source(sp.Source, sp.Page),
		})
	}
	return out
}

func (b *builder) complexForms() []ComplexForm {
	var out []ComplexForm
	for _, cf := range b.raw.ComplexForms {
		out = append(out, ComplexForm{
			Name:     cf.Name,
			Target:   cf.Target,
			Duration: cf.Duration,
			FV:       cf.FV,
			Extra:    cf.Extra,
			Source:   b.source(cf.Source, cf.Page),
		})
	}
	return out
}

// spirits splits bound spirits from registered sprites.
func (b *builder) spirits() (spirits, sprites []Spirit) {
	for _, sp := range b.raw.Spirits {
		s := Spirit{
			Name:        sp.Name,
			CritterName: sp.CritterName,
			Type:        sp.Type,
			Force:       sp.Force,
			Services:    sp.Services,
			Bound:       sp.Bound,
			Fettered:    sp.Fettered,
		}
		if sp.Type == "Sprite" {
			sprites = append(sprites, s)
		} else {
			spirits = append(spirits, s)
		}
	}
	return spirits, sprites
}

func (b *builder) adeptPowers() []AdeptPower {
	var out []AdeptPower
	for _, p := range b.raw.Powers {
		rating, _ := parser.ParseInt(p.Rating)
		out = append(out, AdeptPower{
			Name:           p.Name,
			Extra:          p.Extra,
			Rating:         rating,
			PointsPerLevel: p.PointsPerLevel,
			Action:         p.Action,
			Source:         b.source(p.Source, p.Page),
		})
	}
	return out
}

const (
	kindMetamagic   = "Metamagic"
	kindEcho        = "Echo"
	kindArt         = "Art"
	kindEnchantment = "Enchantment"
)

// grades fills the submersion and initiation sections. Each is built only
// when its toggle is on and the character holds at least one grade. Metamagic,
// echoes, arts and initiation enchantments then attach to the grade with the
// same number; entries without one are dropped.
func (b *builder) grades(s *Summary) {
	rc := b.raw

	var submersion, initiation []Grade
	if rc.ResEnabled && rc.SubmersionGrade > 0 {
		s.Submersion = rc.SubmersionGrade
		submersion = b.gradeRecords(true)
	}
	if rc.MagEnabled && rc.InitiateGrade > 0 {
		s.Initiation = rc.InitiateGrade
		initiation = b.gradeRecords(false)
	}

	for _, m := range rc.Metamagics {
		if m.ImprovementSource == kindEcho {
			b.attach(submersion, kindEcho, m.Name, m.Grade, b.source(m.Source, m.Page))
		} else {
			b.attach(initiation, kindMetamagic, m.Name, m.Grade, b.source(m.Source, m.Page))
		}
	}
	for _, a := range rc.Arts {
		b.attach(initiation, kindArt, a.Name, a.Grade, b.source(a.Source, a.Page))
	}
	for _, sp := range rc.Spells {
		if sp.Category == "Enchantments" && sp.ImprovementSource == "Initiation" {
			b.attach(initiation, kindEnchantment, sp.Name, sp.Grade, b.source(sp.Source, sp.Page))
		}
	}

	if len(submersion) > 0 {
		s.SubmersionGrades = submersion
	}
	if len(initiation) > 0 {
		s.InitiationGrades = initiation
	}
}

func (b *builder) gradeRecords(res bool) []Grade {
	var out []Grade
	for _, g := range b.raw.Grades {
		if g.Res != res {
			continue
		}
		out = append(out, Grade{
			Grade:     g.Grade,
			Group:     g.Group,
			Ordeal:    g.Ordeal,
			Res:       g.Res,
			Schooling: g.Schooling,
			Metamagic: []Metamagic{},
		})
	}
	return out
}

func (b *builder) attach(grades []Grade, kind, name string, grade int, source string) {
	for i := range grades {
		if grades[i].Grade == grade {
			grades[i].Metamagic = append(grades[i].Metamagic, Metamagic{Name: name, Kind: kind, Source: source})
			return
		}
	}
	b.report(DroppedGradeEntry, name, fmt.Sprintf("%s at grade %d has no matching grade record", kind, grade))
}

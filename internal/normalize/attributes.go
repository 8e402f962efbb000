package normalize

import (
	"chummerview/internal/parser"
	"chummerview/internal/rules"
)

// keepAttribute selects the attributes shown on the summary: the standard
// ones, the special attribute of the character's tradition, and Edge.
func keepAttribute(a rawAttribute, traditionType string) bool {
	switch {
	case a.MetatypeCategory == "Standard":
		return true
	case traditionType != "" && a.Name == traditionType && a.MetatypeCategory == "Special":
		return true
	case a.Name == "EDG":
		return true
	}
	return false
}

func (b *builder) attributes() []Attribute {
	b.attrText = map[string]string{}
	b.attrValue = rules.Attributes{}

	out := []Attribute{}
	for _, a := range b.raw.Attributes {
		if !keepAttribute(a, b.raw.TraditionType) {
			continue
		}
		total, _ := parser.ParseInt(a.TotalValue)
		out = append(out, Attribute{
			Name:             a.Name,
			MetatypeCategory: a.MetatypeCategory,
			Base:             a.Base,
			Karma:            a.Karma,
			TotalValue:       total,
		})
		if a.Name != "" {
			b.attrText[a.Name] = a.TotalValue
			b.attrValue[a.Name] = total
		}
	}
	return out
}

// powerMods are the bonuses granted by adept powers, keyed by attribute,
// skill and limit name.
type powerMods struct {
	attributes map[string]int
	skills     map[string]int
	limits     map[string]int
}

func (b *builder) powerMods() powerMods {
	m := powerMods{
		attributes: map[string]int{},
		skills:     map[string]int{},
		limits:     map[string]int{},
	}
	for _, p := range b.raw.Powers {
		bonus := p.Bonus
		if bonus == nil {
			continue
		}
		rating, _ := parser.ParseInt(p.Rating)

		if bonus.SpecificAttribute != "" {
			val := bonus.SpecificValue
			if val == "" {
				val = p.Rating
			}
			v, _ := parser.ParseInt(val)
			m.attributes[bonus.SpecificAttribute] += v
		}
		for _, attr := range bonus.SelectAttributes {
			m.attributes[attr] += rating
		}
		if bonus.SelectSkill && p.Extra != "" {
			m.skills[p.Extra] += rating
		}
		for limit, raw := range map[string]string{
			rules.Mental:   bonus.MentalLimit,
			rules.Physical: bonus.PhysicalLimit,
			rules.Social:   bonus.SocialLimit,
		} {
			if raw == "" {
				continue
			}
			v, _ := parser.ParseInt(raw)
			m.limits[limit] += v
		}
	}
	return m
}

func (b *builder) applyAttributeMods(attrs []Attribute, mods powerMods) {
	for i := range attrs {
		attrs[i].AdeptMod = mods.attributes[attrs[i].Name]
	}
}

func (b *builder) skills(mods powerMods) []Skill {
	groupTotals := map[string]int{}
	for _, g := range b.raw.SkillGroups {
		groupTotals[g.Name] = g.Base + g.Karma
	}
	softs := b.skillsofts()

	out := []Skill{}
	for _, sk := range b.raw.Skills {
		s := Skill{
			Name:         sk.Name,
			Base:         sk.Base,
			Karma:        sk.Karma,
			AdeptMod:     mods.skills[sk.Name],
			SkillsoftMod: softs[sk.Name],
		}
		// Group totals are read once here; the summary never recomputes them.
		if group, ok := rules.GroupOf(sk.Name); ok {
			s.SkillGroupName = group
			s.SkillGroupTotal = groupTotals[group]
		}

		attr, ok := rules.SkillAttribute(sk.Name)
		if !ok {
			attr = sk.Attribute
		}
		if attr == "" {
			b.report(UnknownSkillAttribute, sk.Name, "skill has no governing attribute")
		}
		s.Attribute = attr

		rating := rules.SkillRating(s.SkillGroupTotal, s.Base, s.Karma, s.AdeptMod, s.SkillsoftMod)
		s.DicePool = rules.DicePool(rating, b.attrValue[attr])
		out = append(out, s)
	}
	return out
}

// skillsofts returns the best equipped skillsoft rating per skill, searching
// the whole gear tree.
func (b *builder) skillsofts() map[string]int {
	out := map[string]int{}
	var walk func([]*rawGear)
	walk = func(list []*rawGear) {
		for _, g := range list {
			if g.Equipped && g.Category == "Skillsofts" && g.Extra != "" {
				rating, _ := parser.ParseInt(g.Rating)
				out[g.Extra] = max(out[g.Extra], rating)
			}
			walk(g.Children)
			walk(g.Mods)
			walk(g.Accessories)
			walk(g.Gears)
		}
	}
	walk(b.raw.Gears)
	return out
}

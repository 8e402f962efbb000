package normalize

import (
	"fmt"

	"chummerview/internal/parser"
	"chummerview/internal/rules"
)

func (b *builder) limitModifier(m rawLimitModifier) rules.LimitModifier {
	value, _ := parser.ParseInt(m.Value)
	return rules.LimitModifier{
		Limit:     m.Limit,
		Value:     value,
		Source:    m.Name,
		Condition: rules.LimitCondition(m.Condition),
	}
}

// limitModifiers gathers the explicit limit modifiers followed by those
// granted by worn armor and its mods. Modifiers aimed at Astral or at an
// unknown limit are discarded.
func (b *builder) limitModifiers() []rules.LimitModifier {
	var raw []rawLimitModifier
	raw = append(raw, b.raw.LimitModifiers...)
	for _, armor := range b.raw.Armors {
		raw = append(raw, armor.Bonuses...)
		for _, mod := range armor.Mods {
			raw = append(raw, mod.Bonuses...)
		}
	}

	var out []rules.LimitModifier
	for _, m := range raw {
		if !rules.Modifiable(m.Limit) {
			continue
		}
		out = append(out, b.limitModifier(m))
	}
	return out
}

func (b *builder) limits(mods powerMods) Limits {
	base := rules.ComputeLimits(b.attrValue)
	applied := b.limitModifiers()
	kept := rules.DedupModifiers(applied)

	var out Limits
	for _, name := range rules.LimitNames {
		total, _ := base.Get(name)
		lim := out.byName(name)
		lim.Modifiers = []rules.LimitModifier{}
		for _, m := range kept {
			if m.Limit == name {
				lim.Modifiers = append(lim.Modifiers, m)
			}
		}
		lim.Total = total + rules.SumModifiers(kept, name)
		lim.AdeptMod = mods.limits[name]

		if collapsed := countLimit(applied, name) - len(lim.Modifiers); collapsed > 0 {
			b.report(DuplicateLimitModifier, name, fmt.Sprintf("%d duplicate modifiers collapsed", collapsed))
		}
	}
	return out
}

func countLimit(mods []rules.LimitModifier, limit string) int {
	n := 0
	for _, m := range mods {
		if m.Limit == limit {
			n++
		}
	}
	return n
}

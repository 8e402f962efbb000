package rules

import "strings"

const (
	Physical = "Physical"
	Mental   = "Mental"
	Social   = "Social"
	Astral   = "Astral"
)

// LimitNames lists the four limits in display order.
var LimitNames = [...]string{Physical, Mental, Social, Astral}

// Attributes maps attribute abbreviations (STR, LOG, ESS...) to their total
// values. A missing attribute reads as 0.
type Attributes map[string]int

// Limits are the base limits before modifiers.
type Limits struct {
	Physical int
	Mental   int
	Social   int
	Astral   int
}

// ComputeLimits applies the limit formulas. Astral is the higher of Mental
// and Social and is fixed here, before any modifier touches the other three.
func ComputeLimits(a Attributes) Limits {
	l := Limits{
		Physical: floorDiv(2*a["STR"]+a["BOD"]+a["REA"], 3),
		Mental:   floorDiv(2*a["LOG"]+a["INT"]+a["WIL"], 3),
		Social:   floorDiv(2*a["CHA"]+a["WIL"]+a["ESS"], 3),
	}
	l.Astral = max(l.Mental, l.Social)
	return l
}

// Get returns the base value of a named limit.
func (l Limits) Get(name string) (int, bool) {
	switch name {
	case Physical:
		return l.Physical, true
	case Mental:
		return l.Mental, true
	case Social:
		return l.Social, true
	case Astral:
		return l.Astral, true
	}
	return 0, false
}

// Modifiable reports whether modifiers may be applied to the named limit.
func Modifiable(name string) bool {
	return name == Physical || name == Mental || name == Social
}

// LimitModifier is a bonus or penalty to one limit.
type LimitModifier struct {
	Limit     string `json:"limit"`
	Value     int    `json:"value"`
	Source    string `json:"source"`
	Condition string `json:"condition"`
}

// InfoScore ranks duplicates: a named source is worth 2, a condition 1.
func (m LimitModifier) InfoScore() int {
	score := 0
	if strings.TrimSpace(m.Source) != "" {
		score += 2
	}
	if strings.TrimSpace(m.Condition) != "" {
		score++
	}
	return score
}

type modifierKey struct {
	limit     string
	value     int
	condition string
}

// DedupModifiers keeps one modifier per (limit, value, condition). The entry
// with the higher InfoScore survives; on a tie the later one does. Survivors
// keep the position where their key first appeared.
func DedupModifiers(mods []LimitModifier) []LimitModifier {
	index := make(map[modifierKey]int, len(mods))
	out := make([]LimitModifier, 0, len(mods))
	for _, m := range mods {
		key := modifierKey{limit: m.Limit, value: m.Value, condition: m.Condition}
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, m)
			continue
		}
		if m.InfoScore() >= out[i].InfoScore() {
			out[i] = m
		}
	}
	return out
}

// SumModifiers totals the modifiers that target limit.
func SumModifiers(mods []LimitModifier, limit string) int {
	total := 0
	for _, m := range mods {
		if m.Limit == limit {
			total += m.Value
		}
	}
	return total
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Package rules holds the Shadowrun lookup tables and the pure derived-stat
// formulas shared by the character normalizer and the critter generator.
package rules

// SkillGroup is a named set of skills that can be raised together.
type SkillGroup struct {
	Name   string
	Skills []string
}

// Groups are listed in lookup order. A skill that appears in more than one
// group resolves to the first.
var skillGroups = []SkillGroup{
	{Name: "Acting", Skills: []string{"Con", "Impersonation", "Performance"}},
	{Name: "Athletics", Skills: []string{"Gymnastics", "Running", "Swimming"}},
	{Name: "Biotech", Skills: []string{"Biotechnology", "Cybertechnology", "First Aid", "Medicine"}},
	{Name: "Close Combat", Skills: []string{"Blades", "Clubs", "Unarmed Combat"}},
	{Name: "Conjuring", Skills: []string{"Banishing", "Binding", "Summoning"}},
	{Name: "Cracking", Skills: []string{"Cybercombat", "Electronic Warfare", "Hacking"}},
	{Name: "Electronics", Skills: []string{"Computer", "Data Processing", "Hardware", "Software"}},
	{Name: "Enchanting", Skills: []string{"Alchemy", "Artificing", "Disenchanting"}},
	{Name: "Engineering", Skills: []string{"Aeronautics Mechanic", "Automotive Mechanic", "Industrial Mechanic", "Nautical Mechanic"}},
	{Name: "Firearms", Skills: []string{"Automatics", "Longarms", "Pistols"}},
	{Name: "Influence", Skills: []string{"Etiquette", "Leadership", "Negotiation"}},
	{Name: "Outdoors", Skills: []string{"Navigation", "Survival", "Tracking"}},
	{Name: "Sorcery", Skills: []string{"Counterspelling", "Ritual Spellcasting", "Spellcasting"}},
	{Name: "Stealth", Skills: []string{"Disguise", "Palming", "Sneaking"}},
	{Name: "Tasking", Skills: []string{"Compiling", "Decompiling", "Registering"}},
}

var skillAttributes = map[string]string{
	// combat
	"Archery":              "AGI",
	"Automatics":           "AGI",
	"Blades":               "AGI",
	"Clubs":                "AGI",
	"Exotic Melee Weapon":  "AGI",
	"Exotic Ranged Weapon": "AGI",
	"Gunnery":              "AGI",
	"Heavy Weapons":        "AGI",
	"Longarms":             "AGI",
	"Pistols":              "AGI",
	"Throwing Weapons":     "AGI",
	"Unarmed Combat":       "AGI",

	// physical
	"Disguise":      "INT",
	"Diving":        "BOD",
	"Escape Artist": "AGI",
	"Free-Fall":     "BOD",
	"Gymnastics":    "AGI",
	"Palming":       "AGI",
	"Perception":    "INT",
	"Running":       "STR",
	"Sneaking":      "AGI",
	"Survival":      "WIL",
	"Swimming":      "STR",
	"Tracking":      "INT",

	// social
	"Animal Handling": "CHA",
	"Con":             "CHA",
	"Etiquette":       "CHA",
	"Impersonation":   "CHA",
	"Instruction":     "CHA",
	"Intimidation":    "CHA",
	"Leadership":      "CHA",
	"Negotiation":     "CHA",
	"Performance":     "CHA",

	// technical
	"Aeronautics Mechanic": "LOG",
	"Armorer":              "LOG",
	"Artisan":              "INT",
	"Automotive Mechanic":  "LOG",
	"Biotechnology":        "LOG",
	"Chemistry":            "LOG",
	"Computer":             "LOG",
	"Cybercombat":          "LOG",
	"Cybertechnology":      "LOG",
	"Data Processing":      "LOG",
	"Demolitions":          "LOG",
	"Electronic Warfare":   "LOG",
	"First Aid":            "LOG",
	"Forgery":              "AGI",
	"Hacking":              "LOG",
	"Hardware":             "LOG",
	"Industrial Mechanic":  "LOG",
	"Locksmith":            "AGI",
	"Medicine":             "LOG",
	"Nautical Mechanic":    "LOG",
	"Navigation":           "INT",
	"Software":             "LOG",

	// vehicle
	"Pilot Aerospace":      "REA",
	"Pilot Aircraft":       "REA",
	"Pilot Exotic Vehicle": "REA",
	"Pilot Ground Craft":   "REA",
	"Pilot Walker":         "REA",
	"Pilot Watercraft":     "REA",

	// magic and resonance
	"Alchemy":             "MAG",
	"Arcana":              "LOG",
	"Artificing":          "MAG",
	"Assensing":           "INT",
	"Astral Combat":       "WIL",
	"Banishing":           "MAG",
	"Binding":             "MAG",
	"Counterspelling":     "MAG",
	"Disenchanting":       "MAG",
	"Ritual Spellcasting": "MAG",
	"Spellcasting":        "MAG",
	"Summoning":           "MAG",
	"Compiling":           "RES",
	"Decompiling":         "RES",
	"Registering":         "RES",
}

var limitConditions = map[string]string{
	"LimitCondition_IntimidationVisible":          "Only for Intimidation when visible",
	"LimitCondition_Visible":                      "Only when visible",
	"LimitCondition_TestSneakingThermal":          "Only for Sneaking against thermographic vision or thermal sensors",
	"LimitCondition_SkillsActivePerceptionVisual": "Only for Perception (visual) tests",
}

// SkillGroups returns a copy of the group table in lookup order.
func SkillGroups() []SkillGroup {
	out := make([]SkillGroup, len(skillGroups))
	for i, g := range skillGroups {
		out[i] = SkillGroup{Name: g.Name, Skills: append([]string(nil), g.Skills...)}
	}
	return out
}

// GroupOf returns the first group that lists skill.
func GroupOf(skill string) (string, bool) {
	for _, g := range skillGroups {
		for _, s := range g.Skills {
			if s == skill {
				return g.Name, true
			}
		}
	}
	return "", false
}

// SkillAttribute returns the abbreviation of the attribute that governs skill.
func SkillAttribute(skill string) (string, bool) {
	attr, ok := skillAttributes[skill]
	return attr, ok
}

// LimitCondition translates a condition code into readable text. Unknown
// codes are returned unchanged.
func LimitCondition(code string) string {
	if code == "" {
		return ""
	}
	if text, ok := limitConditions[code]; ok {
		return text
	}
	return code
}

// GroupOverlap records a skill listed by more than one group.
type GroupOverlap struct {
	Skill  string
	Groups []string
}

// GroupOverlaps reports skills that appear in several groups. The first group
// listed is the one GroupOf resolves to.
func GroupOverlaps() []GroupOverlap {
	return findOverlaps(skillGroups)
}

func findOverlaps(groups []SkillGroup) []GroupOverlap {
	seen := map[string][]string{}
	var order []string
	for _, g := range groups {
		for _, s := range g.Skills {
			if _, ok := seen[s]; !ok {
				order = append(order, s)
			}
			seen[s] = append(seen[s], g.Name)
		}
	}

	var out []GroupOverlap
	for _, s := range order {
		if len(seen[s]) > 1 {
			out = append(out, GroupOverlap{Skill: s, Groups: seen[s]})
		}
	}
	return out
}

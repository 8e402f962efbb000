package normalize

import (
	"encoding/json"
	"regexp"

	"chummerview/internal/rules"
)

// Summary is the normalized view of one character sheet. Optional sections
// are omitted when empty; the collections and totals without omitempty are
// always present.
type Summary struct {
	Name             string            `json:"name,omitempty"`
	Metatype         string            `json:"metatype,omitempty"`
	Attributes       []Attribute       `json:"attributes"`
	Skills           []Skill           `json:"skills"`
	Limits           Limits            `json:"limits"`
	Initiative       string            `json:"initiative,omitempty"`
	ConditionMonitor *ConditionMonitor `json:"conditionMonitor,omitempty"`
	ComplexForms     []ComplexForm     `json:"complexForms,omitempty"`
	Sprites          []Spirit          `json:"sprites,omitempty"`
	Spells           []Spell           `json:"spells,omitempty"`
	Spirits          []Spirit          `json:"spirits,omitempty"`
	Submersion       int               `json:"submersion,omitempty"`
	SubmersionGrades []Grade           `json:"submersionGrades,omitempty"`
	Initiation       int               `json:"initiation,omitempty"`
	InitiationGrades []Grade           `json:"initiationGrades,omitempty"`
	AdeptPowers      []AdeptPower      `json:"adeptPowers,omitempty"`
	Karma            float64           `json:"karma"`
	Nuyen            float64           `json:"nuyen"`
	Gear             []Gear            `json:"gear"`
	Vehicles         []Vehicle         `json:"vehicles"`
	Cyberware        []Augmentation    `json:"cyberware"`
	Bioware          []Augmentation    `json:"bioware"`
}

type Attribute struct {
	Name             string `json:"name"`
	MetatypeCategory string `json:"metatypecategory"`
	Base             int    `json:"base"`
	Karma            int    `json:"karma"`
	TotalValue       int    `json:"totalvalue"`
	AdeptMod         int    `json:"adeptMod,omitempty"`
}

type Skill struct {
	Name            string `json:"name"`
	Base            int    `json:"base"`
	Karma           int    `json:"karma"`
	SkillGroupName  string `json:"skillGroupName"`
	SkillGroupTotal int    `json:"skillGroupTotal"`
	AdeptMod        int    `json:"adeptMod,omitempty"`
	SkillsoftMod    int    `json:"skillsoftMod,omitempty"`
	Attribute       string `json:"attribute,omitempty"`
	DicePool        int    `json:"dicePool"`
}

type Limit struct {
	Total     int                   `json:"total"`
	Modifiers []rules.LimitModifier `json:"modifiers"`
	AdeptMod  int                   `json:"adeptMod,omitempty"`
}

type Limits struct {
	Physical Limit `json:"Physical"`
	Mental   Limit `json:"Mental"`
	Social   Limit `json:"Social"`
	Astral   Limit `json:"Astral"`
}

func (l *Limits) byName(name string) *Limit {
	switch name {
	case rules.Physical:
		return &l.Physical
	case rules.Mental:
		return &l.Mental
	case rules.Social:
		return &l.Social
	case rules.Astral:
		return &l.Astral
	}
	return nil
}

type ConditionMonitor struct {
	Physical rules.Track `json:"physical"`
	Stun     rules.Track `json:"stun"`
	Modifier int         `json:"modifier"`
}

type Spell struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type,omitempty"`
	Range    string `json:"range,omitempty"`
	Damage   string `json:"damage,omitempty"`
	Duration string `json:"duration,omitempty"`
	DV       string `json:"dv,omitempty"`
	Extra    string `json:"extra,omitempty"`
	Source   string `json:"source"`
}

type ComplexForm struct {
	Name     string `json:"name"`
	Target   string `json:"target,omitempty"`
	Duration string `json:"duration,omitempty"`
	FV       string `json:"fv,omitempty"`
	Extra    string `json:"extra,omitempty"`
	Source   string `json:"source"`
}

// Spirit is a bound spirit or a registered sprite.
type Spirit struct {
	Name        string `json:"name"`
	CritterName string `json:"critterName,omitempty"`
	Type        string `json:"type"`
	Force       int    `json:"force"`
	Services    int    `json:"services"`
	Bound       bool   `json:"bound"`
	Fettered    bool   `json:"fettered,omitempty"`
}

type AdeptPower struct {
	Name           string  `json:"name"`
	Extra          string  `json:"extra,omitempty"`
	Rating         int     `json:"rating"`
	PointsPerLevel float64 `json:"pointsPerLevel,omitempty"`
	Action         string  `json:"action,omitempty"`
	Source         string  `json:"source"`
}

// Grade is one initiation or submersion grade with the abilities learned at
// it.
type Grade struct {
	Grade     int         `json:"grade"`
	Group     bool        `json:"group"`
	Ordeal    bool        `json:"ordeal"`
	Res       bool        `json:"res"`
	Schooling bool        `json:"schooling"`
	Metamagic []Metamagic `json:"metamagic"`
}

// Metamagic is a metamagic, echo, art or initiation enchantment.
type Metamagic struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
}

// Gear is one item of equipment. Children flattens nested gear, mods,
// accessories and nested gears, in that order.
type Gear struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Rating         Stat   `json:"rating,omitempty"`
	Equipped       bool   `json:"equipped"`
	Quantity       Stat   `json:"quantity,omitempty"`
	DeviceRating   Stat   `json:"devicerating,omitempty"`
	Attack         Stat   `json:"attack,omitempty"`
	Sleaze         Stat   `json:"sleaze,omitempty"`
	DataProcessing Stat   `json:"dataprocessing,omitempty"`
	Firewall       Stat   `json:"firewall,omitempty"`
	Source         string `json:"source"`
	Children       []Gear `json:"children,omitempty"`
}

type Vehicle struct {
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	Handling     Stat          `json:"handling,omitempty"`
	Accel        Stat          `json:"accel,omitempty"`
	Speed        Stat          `json:"speed,omitempty"`
	Pilot        Stat          `json:"pilot,omitempty"`
	Body         Stat          `json:"body,omitempty"`
	Armor        Stat          `json:"armor,omitempty"`
	Sensor       Stat          `json:"sensor,omitempty"`
	Seats        Stat          `json:"seats,omitempty"`
	DeviceRating Stat          `json:"devicerating,omitempty"`
	Source       string        `json:"source"`
	WeaponMounts []WeaponMount `json:"weaponMounts,omitempty"`
	Sensors      []Gear        `json:"sensors,omitempty"`
	Gear         []Gear        `json:"gear,omitempty"`
	Mods         []Gear        `json:"mods,omitempty"`
}

type WeaponMount struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Rating   Stat    `json:"rating,omitempty"`
	Source   string  `json:"source"`
	Weapon   *Weapon `json:"weapon,omitempty"`
}

type Weapon struct {
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Damage      Stat        `json:"damage,omitempty"`
	AP          Stat        `json:"ap,omitempty"`
	Mode        Stat        `json:"mode,omitempty"`
	RC          Stat        `json:"rc,omitempty"`
	Ammo        Stat        `json:"ammo,omitempty"`
	Accuracy    Stat        `json:"accuracy,omitempty"`
	Source      string      `json:"source"`
	Accessories []Accessory `json:"accessories,omitempty"`
}

type Accessory struct {
	Name   string `json:"name"`
	Mount  string `json:"mount,omitempty"`
	Rating Stat   `json:"rating,omitempty"`
	Source string `json:"source"`
	Gear   []Gear `json:"gear,omitempty"`
}

// Augmentation is an implanted piece of cyberware or bioware.
type Augmentation struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Rating   Stat           `json:"rating,omitempty"`
	Essence  Stat           `json:"essence,omitempty"`
	Grade    string         `json:"grade,omitempty"`
	Location string         `json:"location,omitempty"`
	Source   string         `json:"source"`
	Children []Augmentation `json:"children,omitempty"`
	Gear     []Gear         `json:"gear,omitempty"`
}

var plainNumber = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?$`)

// Stat is a value copied from the sheet. It is written to JSON as a number
// when it reads as one and as a string otherwise ("6", "3/5", "{LOG}").
type Stat string

func (s Stat) MarshalJSON() ([]byte, error) {
	if plainNumber.MatchString(string(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

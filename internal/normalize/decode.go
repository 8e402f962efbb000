package normalize

import "chummerview/internal/parser"

// The raw* types are the typed view of the sheet. decode reads the element
// tree into them once; flags become bools and repeated sections become
// slices here, so the build steps never look at the tree.

type rawCharacter struct {
	Alias           string
	Metatype        string
	TraditionType   string
	ResEnabled      bool
	MagEnabled      bool
	SubmersionGrade int
	InitiateGrade   int
	Karma           float64
	Nuyen           float64
	PhysicalFilled  int
	StunFilled      int
	Calculated      *rawCalculated

	Attributes     []rawAttribute
	SkillGroups    []rawSkillGroup
	Skills         []rawSkill
	LimitModifiers []rawLimitModifier
	Armors         []rawArmor
	Spells         []rawSpell
	ComplexForms   []rawComplexForm
	Spirits        []rawSpirit
	Powers         []rawPower
	Grades         []rawGrade
	Metamagics     []rawMetamagic
	Arts           []rawMetamagic
	Gears          []*rawGear
	Weapons        []rawWeapon
	Cyberwares     []rawAugment
	Vehicles       []rawVehicle
}

type rawCalculated struct {
	PhysicalCM         int
	PhysicalCMOverflow int
	StunCM             int
	StunCMOverflow     int
}

type rawAttribute struct {
	Name             string
	MetatypeCategory string
	Base             int
	Karma            int
	TotalValue       string
}

type rawSkillGroup struct {
	Name  string
	Base  int
	Karma int
}

type rawSkill struct {
	Name      string
	Base      int
	Karma     int
	Attribute string
}

type rawLimitModifier struct {
	Limit     string
	Value     string
	Name      string
	Condition string
}

type rawArmor struct {
	Name    string
	Rating  string
	Bonuses []rawLimitModifier
	Mods    []rawArmorMod
}

type rawArmorMod struct {
	Name    string
	Rating  string
	Bonuses []rawLimitModifier
	Gears   []*rawGear
}

type rawSpell struct {
	Name              string
	Category          string
	Type              string
	Range             string
	Damage            string
	Duration          string
	DV                string
	Extra             string
	Source            string
	Page              string
	Grade             int
	ImprovementSource string
}

type rawComplexForm struct {
	Name     string
	Target   string
	Duration string
	FV       string
	Extra    string
	Source   string
	Page     string
}

type rawSpirit struct {
	Name        string
	CritterName string
	Type        string
	Force       int
	Services    int
	Bound       bool
	Fettered    bool
}

type rawPower struct {
	Name           string
	Extra          string
	Rating         string
	PointsPerLevel float64
	Action         string
	Source         string
	Page           string
	Bonus          *rawPowerBonus
}

type rawPowerBonus struct {
	SpecificAttribute string
	SpecificValue     string
	SelectAttributes  []string
	SelectSkill       bool
	MentalLimit       string
	PhysicalLimit     string
	SocialLimit       string
}

type rawGrade struct {
	Grade     int
	Group     bool
	Ordeal    bool
	Res       bool
	Schooling bool
}

type rawMetamagic struct {
	Name              string
	Grade             int
	ImprovementSource string
	Source            string
	Page              string
}

type rawGear struct {
	Name           string
	Category       string
	Rating         string
	Equipped       bool
	Qty            string
	DeviceRating   string
	Attack         string
	Sleaze         string
	DataProcessing string
	Firewall       string
	Extra          string
	Source         string
	Page           string

	Children    []*rawGear
	Mods        []*rawGear
	Accessories []*rawGear
	Gears       []*rawGear
}

type rawWeapon struct {
	Name        string
	Category    string
	Damage      string
	AP          string
	Mode        string
	RC          string
	Ammo        string
	Accuracy    string
	Source      string
	Page        string
	Accessories []rawAccessory
}

type rawAccessory struct {
	Name   string
	Mount  string
	Rating string
	Source string
	Page   string
	Gears  []*rawGear
}

type rawAugment struct {
	Name              string
	Category          string
	Rating            string
	Essence           string
	Grade             string
	Location          string
	ImprovementSource string
	Source            string
	Page              string
	Children          []rawAugment
	Gears             []*rawGear
}

type rawVehicle struct {
	Name         string
	Category     string
	Handling     string
	Accel        string
	Speed        string
	Pilot        string
	Body         string
	Armor        string
	Sensor       string
	Seats        string
	DeviceRating string
	Source       string
	Page         string
	Mods         []*rawGear
	WeaponMounts []rawWeaponMount
	Gears        []*rawGear
}

type rawWeaponMount struct {
	Name     string
	Category string
	Rating   string
	Source   string
	Page     string
	Weapons  []rawWeapon
}

func decodeCharacter(c *parser.Node) *rawCharacter {
	rc := &rawCharacter{
		Alias:           c.Value("alias"),
		Metatype:        c.Value("metatype"),
		TraditionType:   c.Path("tradition", "traditiontype").Text(),
		ResEnabled:      c.Bool("resenabled"),
		MagEnabled:      c.Bool("magenabled"),
		SubmersionGrade: c.Int("submersiongrade"),
		InitiateGrade:   c.Int("initiategrade"),
		Karma:           c.Float("karma"),
		Nuyen:           c.Float("nuyen"),
		PhysicalFilled:  c.Int("physicalcmfilled"),
		StunFilled:      c.Int("stuncmfilled"),
	}
	if cv := c.Child("calculatedvalues"); cv != nil {
		rc.Calculated = &rawCalculated{
			PhysicalCM:         cv.Int("physicalcm"),
			PhysicalCMOverflow: cv.Int("physicalcmoverflow"),
			StunCM:             cv.Int("stuncm"),
			StunCMOverflow:     cv.Int("stuncmoverflow"),
		}
	}

	for _, n := range c.Child("attributes").All("attribute") {
		rc.Attributes = append(rc.Attributes, rawAttribute{
			Name:             n.Value("name"),
			MetatypeCategory: n.Value("metatypecategory"),
			Base:             n.Int("base"),
			Karma:            n.Int("karma"),
			TotalValue:       n.Value("totalvalue"),
		})
	}

	skills := c.Child("newskills")
	for _, n := range skills.Path("groups").All("group") {
		rc.SkillGroups = append(rc.SkillGroups, rawSkillGroup{
			Name:  n.Value("name"),
			Base:  n.Int("base"),
			Karma: n.Int("karma"),
		})
	}
	for _, n := range skills.Path("skills").All("skill") {
		rc.Skills = append(rc.Skills, rawSkill{
			Name:      n.Value("name"),
			Base:      n.Int("base"),
			Karma:     n.Int("karma"),
			Attribute: n.Value("attribute"),
		})
	}

	for _, n := range c.Child("limitmodifiers").All("limitmodifier") {
		value := n.Value("value")
		if value == "" {
			value = n.Value("bonus")
		}
		rc.LimitModifiers = append(rc.LimitModifiers, rawLimitModifier{
			Limit:     n.Value("limit"),
			Value:     value,
			Name:      n.Value("name"),
			Condition: n.Value("condition"),
		})
	}

	for _, n := range c.Child("armors").All("armor") {
		armor := rawArmor{
			Name:    n.Value("name"),
			Rating:  n.Value("rating"),
			Bonuses: decodeBonusLimits(n),
		}
		for _, m := range n.Child("armormods").All("armormod") {
			armor.Mods = append(armor.Mods, rawArmorMod{
				Name:    m.Value("name"),
				Rating:  m.Value("rating"),
				Bonuses: decodeBonusLimits(m),
				Gears:   decodeGears(m.Child("gears").All("gear")),
			})
		}
		rc.Armors = append(rc.Armors, armor)
	}

	for _, n := range c.Child("spells").All("spell") {
		rc.Spells = append(rc.Spells, rawSpell{
			Name:              n.Value("name"),
			Category:          n.Value("category"),
			Type:              n.Value("type"),
			Range:             n.Value("range"),
			Damage:            n.Value("damage"),
			Duration:          n.Value("duration"),
			DV:                n.Value("dv"),
			Extra:             n.Value("extra"),
			Source:            n.Value("source"),
			Page:              n.Value("page"),
			Grade:             n.Int("grade"),
			ImprovementSource: n.Value("improvementsource"),
		})
	}

	for _, n := range c.Child("complexforms").All("complexform") {
		rc.ComplexForms = append(rc.ComplexForms, rawComplexForm{
			Name:     n.Value("name"),
			Target:   n.Value("target"),
			Duration: n.Value("duration"),
			FV:       n.Value("fv"),
			Extra:    n.Value("extra"),
			Source:   n.Value("source"),
			Page:     n.Value("page"),
		})
	}

	for _, n := range c.Child("spirits").All("spirit") {
		rc.Spirits = append(rc.Spirits, rawSpirit{
			Name:        n.Value("name"),
			CritterName: n.Value("crittername"),
			Type:        n.Value("type"),
			Force:       n.Int("force"),
			Services:    n.Int("services"),
			Bound:       n.Bool("bound"),
			Fettered:    n.Bool("fettered"),
		})
	}

	for _, n := range c.Child("powers").All("power") {
		rc.Powers = append(rc.Powers, decodePower(n))
	}

	for _, n := range c.Child("initiationgrades").All("initiationgrade") {
		rc.Grades = append(rc.Grades, rawGrade{
			Grade:     n.Int("grade"),
			Group:     n.Bool("group"),
			Ordeal:    n.Bool("ordeal"),
			Res:       n.Bool("res"),
			Schooling: n.Bool("schooling"),
		})
	}
	for _, n := range c.Child("metamagics").All("metamagic") {
		rc.Metamagics = append(rc.Metamagics, decodeMetamagic(n))
	}
	for _, n := range c.Child("arts").All("art") {
		rc.Arts = append(rc.Arts, decodeMetamagic(n))
	}

	rc.Gears = decodeGears(c.Child("gears").All("gear"))
	for _, n := range c.Child("weapons").All("weapon") {
		rc.Weapons = append(rc.Weapons, decodeWeapon(n))
	}
	for _, n := range c.Child("cyberwares").All("cyberware") {
		rc.Cyberwares = append(rc.Cyberwares, decodeAugment(n))
	}
	for _, n := range c.Child("vehicles").All("vehicle") {
		rc.Vehicles = append(rc.Vehicles, decodeVehicle(n))
	}
	return rc
}

// decodeBonusLimits reads limit modifiers granted by an item's bonus blocks.
// A value of "Rating" takes the item's rating.
func decodeBonusLimits(item *parser.Node) []rawLimitModifier {
	rating := item.Value("rating")
	var out []rawLimitModifier
	for _, bonus := range item.All("bonus") {
		for _, lm := range bonus.All("limitmodifier") {
			value := lm.Value("value")
			if value == "Rating" {
				value = rating
			}
			out = append(out, rawLimitModifier{
				Limit:     lm.Value("limit"),
				Value:     value,
				Condition: lm.Value("condition"),
			})
		}
	}
	return out
}

func decodePower(n *parser.Node) rawPower {
	p := rawPower{
		Name:           n.Value("name"),
		Extra:          n.Value("extra"),
		Rating:         n.Value("rating"),
		PointsPerLevel: n.Float("pointsperlevel"),
		Action:         n.Value("action"),
		Source:         n.Value("source"),
		Page:           n.Value("page"),
	}
	b := n.Child("bonus")
	if b == nil {
		return p
	}

	bonus := &rawPowerBonus{
		SelectSkill:   b.Has("selectskill"),
		MentalLimit:   b.Value("mentallimit"),
		PhysicalLimit: b.Value("physicallimit"),
		SocialLimit:   b.Value("sociallimit"),
	}
	if sa := b.Child("specificattribute"); sa != nil {
		bonus.SpecificAttribute = sa.Value("name")
		bonus.SpecificValue = sa.Value("val")
	}
	for _, a := range b.Child("selectattribute").All("attribute") {
		if name := a.Text(); name != "" {
			bonus.SelectAttributes = append(bonus.SelectAttributes, name)
		}
	}
	p.Bonus = bonus
	return p
}

func decodeMetamagic(n *parser.Node) rawMetamagic {
	return rawMetamagic{
		Name:              n.Value("name"),
		Grade:             n.Int("grade"),
		ImprovementSource: n.Value("improvementsource"),
		Source:            n.Value("source"),
		Page:              n.Value("page"),
	}
}

func decodeGears(nodes []*parser.Node) []*rawGear {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*rawGear, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, decodeGear(n))
	}
	return out
}

func decodeGear(n *parser.Node) *rawGear {
	name := n.Value("name")
	if name == "" {
		name = n.Value("gearname")
	}
	g := &rawGear{
		Name:           name,
		Category:       n.Value("category"),
		Rating:         n.Value("rating"),
		Equipped:       n.Bool("equipped"),
		Qty:            n.Value("qty"),
		DeviceRating:   n.Value("devicerating"),
		Attack:         n.Value("attack"),
		Sleaze:         n.Value("sleaze"),
		DataProcessing: n.Value("dataprocessing"),
		Firewall:       n.Value("firewall"),
		Extra:          n.Value("extra"),
		Source:         n.Value("source"),
		Page:           n.Value("page"),
		Children:       decodeGears(n.Child("children").All("gear")),
		Gears:          decodeGears(n.Child("gears").All("gear")),
	}
	for _, mods := range n.All("mods") {
		g.Mods = append(g.Mods, decodeGears(mods.Elements())...)
	}
	for _, acc := range n.All("accessories") {
		g.Accessories = append(g.Accessories, decodeGears(acc.Elements())...)
	}
	return g
}

func decodeWeapon(n *parser.Node) rawWeapon {
	w := rawWeapon{
		Name:     n.Value("name"),
		Category: n.Value("category"),
		Damage:   n.Value("damage"),
		AP:       n.Value("ap"),
		Mode:     n.Value("mode"),
		RC:       n.Value("rc"),
		Ammo:     n.Value("ammo"),
		Accuracy: n.Value("accuracy"),
		Source:   n.Value("source"),
		Page:     n.Value("page"),
	}
	for _, a := range n.Child("accessories").All("accessory") {
		w.Accessories = append(w.Accessories, rawAccessory{
			Name:   a.Value("name"),
			Mount:  a.Value("mount"),
			Rating: a.Value("rating"),
			Source: a.Value("source"),
			Page:   a.Value("page"),
			Gears:  decodeGears(a.Child("gears").All("gear")),
		})
	}
	return w
}

func decodeAugment(n *parser.Node) rawAugment {
	a := rawAugment{
		Name:              n.Value("name"),
		Category:          n.Value("category"),
		Rating:            n.Value("rating"),
		Essence:           n.Value("ess"),
		Grade:             n.Value("grade"),
		Location:          n.Value("location"),
		ImprovementSource: n.Value("improvementsource"),
		Source:            n.Value("source"),
		Page:              n.Value("page"),
		Gears:             decodeGears(n.Child("gears").All("gear")),
	}
	for _, child := range n.Child("children").All("cyberware") {
		a.Children = append(a.Children, decodeAugment(child))
	}
	return a
}

func decodeVehicle(n *parser.Node) rawVehicle {
	v := rawVehicle{
		Name:         n.Value("name"),
		Category:     n.Value("category"),
		Handling:     n.Value("handling"),
		Accel:        n.Value("accel"),
		Speed:        n.Value("speed"),
		Pilot:        n.Value("pilot"),
		Body:         n.Value("body"),
		Armor:        n.Value("armor"),
		Sensor:       n.Value("sensor"),
		Seats:        n.Value("seats"),
		DeviceRating: n.Value("devicerating"),
		Source:       n.Value("source"),
		Page:         n.Value("page"),
		Mods:         decodeGears(n.Child("mods").All("mod")),
		Gears:        decodeGears(n.Child("gears").All("gear")),
	}
	for _, m := range n.Child("weaponmounts").All("weaponmount") {
		mount := rawWeaponMount{
			Name:     m.Value("name"),
			Category: m.Value("category"),
			Rating:   m.Value("rating"),
			Source:   m.Value("source"),
			Page:     m.Value("page"),
		}
		for _, w := range m.Child("weapons").All("weapon") {
			mount.Weapons = append(mount.Weapons, decodeWeapon(w))
		}
		v.WeaponMounts = append(v.WeaponMounts, mount)
	}
	return v
}

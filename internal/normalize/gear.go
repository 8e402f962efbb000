package normalize

import "regexp"

var placeholder = regexp.MustCompile(`^\{([A-Z]+)\}$`)

// resolve substitutes an attribute reference such as "{LOG}" with the
// character's total for that attribute. Other values pass through.
func (b *builder) resolve(v string) Stat {
	m := placeholder.FindStringSubmatch(v)
	if m == nil {
		return Stat(v)
	}
	if total := b.attrText[m[1]]; total != "" {
		return Stat(total)
	}
	b.report(UnresolvedPlaceholder, v, "no attribute named "+m[1])
	return Stat(v)
}

func (b *builder) resolveText(v string) string {
	return string(b.resolve(v))
}

// source joins book and page; it is empty unless both are present.
func (b *builder) source(book, page string) string {
	if book == "" || page == "" {
		return ""
	}
	return b.resolveText(book) + " " + b.resolveText(page)
}

func (b *builder) gear(g *rawGear) Gear {
	out := Gear{
		Name:           b.resolveText(g.Name),
		Category:       b.resolveText(g.Category),
		Rating:         b.resolve(g.Rating),
		Equipped:       g.Equipped,
		Quantity:       b.resolve(g.Qty),
		DeviceRating:   b.resolve(g.DeviceRating),
		Attack:         b.resolve(g.Attack),
		Sleaze:         b.resolve(g.Sleaze),
		DataProcessing: b.resolve(g.DataProcessing),
		Firewall:       b.resolve(g.Firewall),
		Source:         b.source(g.Source, g.Page),
	}
	for _, origin := range [][]*rawGear{g.Children, g.Mods, g.Accessories, g.Gears} {
		out.Children = append(out.Children, b.gearList(origin)...)
	}
	return out
}

func (b *builder) gearList(list []*rawGear) []Gear {
	var out []Gear
	for _, g := range list {
		out = append(out, b.gear(g))
	}
	return out
}

// collectGear gathers the character's top-level gear, then gear carried on
// weapon accessories, then gear stored in armor mods.
func (b *builder) collectGear() []Gear {
	out := []Gear{}
	out = append(out, b.gearList(b.raw.Gears)...)
	for _, w := range b.raw.Weapons {
		for _, acc := range w.Accessories {
			out = append(out, b.gearList(acc.Gears)...)
		}
	}
	for _, armor := range b.raw.Armors {
		for _, mod := range armor.Mods {
			out = append(out, b.gearList(mod.Gears)...)
		}
	}
	return out
}

func (b *builder) weapon(w rawWeapon) *Weapon {
	out := &Weapon{
		Name:     b.resolveText(w.Name),
		Category: b.resolveText(w.Category),
		Damage:   b.resolve(w.Damage),
		AP:       b.resolve(w.AP),
		Mode:     b.resolve(w.Mode),
		RC:       b.resolve(w.RC),
		Ammo:     b.resolve(w.Ammo),
		Accuracy: b.resolve(w.Accuracy),
		Source:   b.source(w.Source, w.Page),
	}
	for _, acc := range w.Accessories {
		out.Accessories = append(out.Accessories, Accessory{
			Name:   b.resolveText(acc.Name),
			Mount:  b.resolveText(acc.Mount),
			Rating: b.resolve(acc.Rating),
			Source: b.source(acc.Source, acc.Page),
			Gear:   b.gearList(acc.Gears),
		})
	}
	return out
}

func (b *builder) vehicles() []Vehicle {
	out := []Vehicle{}
	for _, v := range b.raw.Vehicles {
		vehicle := Vehicle{
			Name:         b.resolveText(v.Name),
			Category:     b.resolveText(v.Category),
			Handling:     b.resolve(v.Handling),
			Accel:        b.resolve(v.Accel),
			Speed:        b.resolve(v.Speed),
			Pilot:        b.resolve(v.Pilot),
			Body:         b.resolve(v.Body),
			Armor:        b.resolve(v.Armor),
			Sensor:       b.resolve(v.Sensor),
			Seats:        b.resolve(v.Seats),
			DeviceRating: b.resolve(v.DeviceRating),
			Source:       b.source(v.Source, v.Page),
			Mods:         b.gearList(v.Mods),
		}
		for _, m := range v.WeaponMounts {
			mount := WeaponMount{
				Name:     b.resolveText(m.Name),
				Category: b.resolveText(m.Category),
				Rating:   b.resolve(m.Rating),
				Source:   b.source(m.Source, m.Page),
			}
			// A mount holds at most one weapon.
			if len(m.Weapons) > 0 {
				mount.Weapon = b.weapon(m.Weapons[0])
			}
			vehicle.WeaponMounts = append(vehicle.WeaponMounts, mount)
		}
		for _, g := range v.Gears {
			if g.Category == "Sensors" {
				vehicle.Sensors = append(vehicle.Sensors, b.gear(g))
			} else {
				vehicle.Gear = append(vehicle.Gear, b.gear(g))
			}
		}
		out = append(out, vehicle)
	}
	return out
}

func (b *builder) augmentation(a rawAugment) Augmentation {
	out := Augmentation{
		Name:     b.resolveText(a.Name),
		Category: b.resolveText(a.Category),
		Rating:   b.resolve(a.Rating),
		Essence:  b.resolve(a.Essence),
		Grade:    b.resolveText(a.Grade),
		Location: b.resolveText(a.Location),
		Source:   b.source(a.Source, a.Page),
		Gear:     b.gearList(a.Gears),
	}
	for _, child := range a.Children {
		out.Children = append(out.Children, b.augmentation(child))
	}
	return out
}

// augmentations splits implants by their improvement source.
func (b *builder) augmentations() (cyberware, bioware []Augmentation) {
	cyberware, bioware = []Augmentation{}, []Augmentation{}
	for _, a := range b.raw.Cyberwares {
		if a.ImprovementSource == "Bioware" {
			bioware = append(bioware, b.augmentation(a))
		} else {
			cyberware = append(cyberware, b.augmentation(a))
		}
	}
	return cyberware, bioware
}

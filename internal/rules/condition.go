package rules

// Track is one damage track of a condition monitor.
type Track struct {
	Boxes    int `json:"boxes"`
	Overflow int `json:"overflow"`
	Damage   int `json:"damage"`
}

// Max is the highest damage the track can hold, overflow included.
func (t Track) Max() int {
	return t.Boxes + t.Overflow
}

// WithDamage returns the track holding damage, clamped to [0, Max].
func (t Track) WithDamage(damage int) Track {
	t.Damage = min(max(damage, 0), t.Max())
	return t
}

// Filled reports whether every regular box is marked.
func (t Track) Filled() bool {
	return t.Boxes > 0 && t.Damage >= t.Boxes
}

// InOverflow reports whether the track has spilled into its last overflow box.
func (t Track) InOverflow() bool {
	return t.Overflow > 0 && t.Damage == t.Max()
}

// penalty counts full groups of three boxes, ignoring overflow.
func (t Track) penalty() int {
	return min(t.Damage, t.Boxes) / 3
}

// ConditionMonitor holds the physical and stun tracks of one character.
// It is a plain value; every character carries its own.
type ConditionMonitor struct {
	Physical Track `json:"physical"`
	Stun     Track `json:"stun"`
}

// Modifier is the dice-pool penalty from wounds: -1 per three boxes of
// damage on each track.
func (cm ConditionMonitor) Modifier() int {
	return -(cm.Physical.penalty() + cm.Stun.penalty())
}

// Damage returns a copy with both tracks set to the given damage.
func (cm ConditionMonitor) Damage(physical, stun int) ConditionMonitor {
	cm.Physical = cm.Physical.WithDamage(physical)
	cm.Stun = cm.Stun.WithDamage(stun)
	return cm
}

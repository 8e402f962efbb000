package rules

import "fmt"

// InitiativeType selects the initiative formula for a critter.
type InitiativeType string

const (
	PhysicalInitiative InitiativeType = "Physical"
	AstralInitiative   InitiativeType = "Astral"
	MatrixInitiative   InitiativeType = "Matrix"
)

// Initiative is a fixed score plus a number of six-sided dice.
type Initiative struct {
	Base int
	Dice int
}

func (i Initiative) String() string {
	if i.IsZero() {
		return "N/A"
	}
	return fmt.Sprintf("%d + %dD6", i.Base, i.Dice)
}

func (i Initiative) IsZero() bool {
	return i.Base == 0 && i.Dice == 0
}

func (i Initiative) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// CharacterInitiative is the physical initiative of a metahuman: REA + INT
// plus one die.
func CharacterInitiative(rea, intuition int) Initiative {
	return Initiative{Base: rea + intuition, Dice: 1}
}

// CritterInitiative scales initiative with Force. Physical adds the
// template's REA modifier, Matrix adds its Data Processing modifier, Astral
// uses Force alone. An unknown type keeps only the dice.
func CritterInitiative(kind InitiativeType, force, modifier, dice int) Initiative {
	switch kind {
	case PhysicalInitiative, MatrixInitiative:
		return Initiative{Base: 2*force + modifier, Dice: dice}
	case AstralInitiative:
		return Initiative{Base: 2 * force, Dice: dice}
	}
	return Initiative{Dice: dice}
}

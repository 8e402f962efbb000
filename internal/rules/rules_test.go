package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLimits(t *testing.T) {
	l := ComputeLimits(Attributes{
		"STR": 4, "BOD": 3, "REA": 5,
		"LOG": 6, "INT": 4, "WIL": 3,
		"CHA": 2, "ESS": 5,
	})

	assert.Equal(t, Limits{Physical: 5, Mental: 6, Social: 4, Astral: 6}, l)
}

func TestComputeLimits_MissingAttributesReadAsZero(t *testing.T) {
	l := ComputeLimits(Attributes{"STR": 3})

	assert.Equal(t, Limits{Physical: 2}, l)
}

func TestComputeLimits_AstralIsMaxOfMentalAndSocial(t *testing.T) {
	values := []int{0, 1, 2, 3, 5, 7, 8, 11, 12}
	for _, log := range values {
		for _, intuition := range values {
			for _, wil := range values {
				for _, cha := range values {
					for _, ess := range values {
						// STR/BOD/REA cannot move Astral; sample them at the bounds.
						for _, phys := range []int{0, 12} {
							l := ComputeLimits(Attributes{
								"STR": phys, "BOD": phys, "REA": phys,
								"LOG": log, "INT": intuition, "WIL": wil,
								"CHA": cha, "ESS": ess,
							})
							if l.Astral != max(l.Mental, l.Social) {
								t.Fatalf("astral %d != max(%d, %d) for LOG=%d INT=%d WIL=%d CHA=%d ESS=%d",
									l.Astral, l.Mental, l.Social, log, intuition, wil, cha, ess)
							}
						}
					}
				}
			}
		}
	}
}

func TestLimits_Get(t *testing.T) {
	l := Limits{Physical: 1, Mental: 2, Social: 3, Astral: 4}
	for i, name := range LimitNames {
		v, ok := l.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, i+1, v, name)
	}
	_, ok := l.Get("Matrix")
	assert.False(t, ok)

	assert.True(t, Modifiable(Physical))
	assert.False(t, Modifiable(Astral))
}

func TestDedupModifiers(t *testing.T) {
	t.Run("higher information score survives", func(t *testing.T) {
		mods := []LimitModifier{
			{Limit: Social, Value: 1, Source: "Tailored Pheromones", Condition: "Only when visible"},
			{Limit: Social, Value: 1, Condition: "Only when visible"},
			{Limit: Physical, Value: 2},
		}
		got := DedupModifiers(mods)

		require.Len(t, got, 2)
		assert.Equal(t, "Tailored Pheromones", got[0].Source)
		assert.Equal(t, Physical, got[1].Limit)
	})

	t.Run("tie keeps the later entry in the first position", func(t *testing.T) {
		mods := []LimitModifier{
			{Limit: Mental, Value: 1, Source: "Commlink"},
			{Limit: Physical, Value: 1},
			{Limit: Mental, Value: 1, Source: "Cyberdeck"},
		}
		got := DedupModifiers(mods)

		require.Len(t, got, 2)
		assert.Equal(t, "Cyberdeck", got[0].Source)
	})

	t.Run("count shrinks to unique keys", func(t *testing.T) {
		var mods []LimitModifier
		unique := map[modifierKey]bool{}
		for i := 0; i < 60; i++ {
			m := LimitModifier{
				Limit:     LimitNames[i%3],
				Value:     i % 4,
				Condition: []string{"", "Only when visible"}[i%2],
			}
			if i%5 == 0 {
				m.Source = "source"
			}
			mods = append(mods, m)
			unique[modifierKey{m.Limit, m.Value, m.Condition}] = true
		}

		assert.Len(t, DedupModifiers(mods), len(unique))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, DedupModifiers(nil))
	})
}

func TestSumModifiers(t *testing.T) {
	mods := []LimitModifier{
		{Limit: Social, Value: 2},
		{Limit: Social, Value: -1},
		{Limit: Mental, Value: 3},
	}
	assert.Equal(t, 1, SumModifiers(mods, Social))
	assert.Equal(t, 0, SumModifiers(mods, Physical))
}

func TestDicePool(t *testing.T) {
	t.Run("pistols with skillsoft", func(t *testing.T) {
		rating := SkillRating(0, 3, 2, 0, 1)
		assert.Equal(t, 11, DicePool(rating, 5))
	})

	t.Run("group rating replaces base and karma", func(t *testing.T) {
		assert.Equal(t, 4, SkillRating(4, 1, 1, 0, 0))
		assert.Equal(t, 6, SkillRating(4, 1, 1, 2, 0))
	})
}

func TestInitiative(t *testing.T) {
	tests := []struct {
		name string
		got  Initiative
		want string
	}{
		{"physical", CritterInitiative(PhysicalInitiative, 4, 1, 2), "9 + 2D6"},
		{"astral", CritterInitiative(AstralInitiative, 4, 1, 2), "8 + 2D6"},
		{"matrix", CritterInitiative(MatrixInitiative, 5, 3, 4), "13 + 4D6"},
		{"unknown type", CritterInitiative("Vibes", 5, 3, 4), "0 + 4D6"},
		{"nothing", CritterInitiative("Vibes", 5, 3, 0), "N/A"},
		{"character", CharacterInitiative(5, 4), "9 + 1D6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.String())
		})
	}
}

func TestConditionMonitor(t *testing.T) {
	cm := ConditionMonitor{
		Physical: Track{Boxes: 10, Overflow: 3},
		Stun:     Track{Boxes: 10},
	}

	t.Run("unhurt", func(t *testing.T) {
		assert.Equal(t, 0, cm.Modifier())
	})

	t.Run("wounded", func(t *testing.T) {
		assert.Equal(t, -3, cm.Damage(6, 3).Modifier())
		assert.Equal(t, -1, cm.Damage(5, 2).Modifier())
	})

	t.Run("overflow does not add to the penalty", func(t *testing.T) {
		hurt := cm.Damage(13, 0)
		assert.Equal(t, 13, hurt.Physical.Damage)
		assert.True(t, hurt.Physical.InOverflow())
		assert.Equal(t, -3, hurt.Modifier())
	})

	t.Run("damage is clamped", func(t *testing.T) {
		hurt := cm.Damage(40, -2)
		assert.Equal(t, 13, hurt.Physical.Damage)
		assert.Equal(t, 0, hurt.Stun.Damage)
	})

	t.Run("original value is untouched", func(t *testing.T) {
		_ = cm.Damage(9, 9)
		assert.Equal(t, 0, cm.Physical.Damage)
	})
}

func TestTables(t *testing.T) {
	group, ok := GroupOf("Pistols")
	require.True(t, ok)
	assert.Equal(t, "Firearms", group)

	_, ok = GroupOf("Perception")
	assert.False(t, ok)

	attr, ok := SkillAttribute("Throwing Weapons")
	require.True(t, ok)
	assert.Equal(t, "AGI", attr)

	assert.Equal(t, "Only when visible", LimitCondition("LimitCondition_Visible"))
	assert.Equal(t, "LimitCondition_Unknown", LimitCondition("LimitCondition_Unknown"))
	assert.Equal(t, "", LimitCondition(""))
}

func TestGroupOverlaps(t *testing.T) {
	assert.Empty(t, GroupOverlaps())

	got := findOverlaps([]SkillGroup{
		{Name: "Close Combat", Skills: []string{"Blades", "Throwing Weapons"}},
		{Name: "Ranged", Skills: []string{"Throwing Weapons", "Archery"}},
	})
	require.Len(t, got, 1)
	assert.Equal(t, GroupOverlap{Skill: "Throwing Weapons", Groups: []string{"Close Combat", "Ranged"}}, got[0])
}

func TestSkillGroups_ReturnsCopy(t *testing.T) {
	groups := SkillGroups()
	groups[0].Skills[0] = "Changed"

	group, ok := GroupOf("Con")
	require.True(t, ok)
	assert.Equal(t, "Acting", group)
}

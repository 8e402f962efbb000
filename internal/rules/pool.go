package rules

// SkillRating is the effective rating of a skill. A skill that belongs to a
// rated group uses the group rating in place of its own base and karma.
func SkillRating(groupTotal, base, karma, adeptMod, skillsoftMod int) int {
	rating := base + karma
	if groupTotal > 0 {
		rating = groupTotal
	}
	return rating + adeptMod + skillsoftMod
}

// DicePool is the number of dice rolled for a skill test.
func DicePool(rating, attribute int) int {
	return rating + attribute
}

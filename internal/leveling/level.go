// Package leveling maps accumulated experience to player levels.
package leveling

// ExperiencePerLevel is the experience needed to advance one level
const ExperiencePerLevel int64 = 1000

// ExperienceDivisor converts a case price into experience
const ExperienceDivisor int64 = 10

// LevelFor returns the largest level L >= 1 with experience >= (L-1)*ExperiencePerLevel
func LevelFor(experience int64) int {
	if experience <= 0 {
		return 1
	}
	return int(experience/ExperiencePerLevel) + 1
}

// ExperienceForLevel returns the cumulative experience required to reach level
func ExperienceForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * ExperiencePerLevel
}

// ExperienceForPurchase returns the experience awarded for spending price
func ExperienceForPurchase(price int64) int64 {
	if price <= 0 {
		return 0
	}
	return price / ExperienceDivisor
}

// ExperienceToNextLevel returns how much experience is still needed for the next level
func ExperienceToNextLevel(experience int64) int64 {
	if experience < 0 {
		experience = 0
	}
	return ExperienceForLevel(LevelFor(experience)+1) - experience
}

// Progress applies gained experience and reports the new totals
func Progress(experience, gained int64) (newExperience int64, newLevel int, leveledUp bool) {
	oldLevel := LevelFor(experience)
	newExperience = experience + gained
	newLevel = LevelFor(newExperience)
	return newExperience, newLevel, newLevel > oldLevel
}

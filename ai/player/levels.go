package player

const (
	MinLevel     = 1
	MaxLevel     = 10
	DefaultLevel = 5

	// defaultLevelRollouts is what the bot has always used for a challenge.
	defaultLevelRollouts = 32768
)

// RolloutsForLevel maps a difficulty level to a search budget. Each level
// doubles the budget of the one below it. Out-of-range levels are clamped.
func RolloutsForLevel(level int) uint32 {
	level = max(MinLevel, min(MaxLevel, level))
	if level >= DefaultLevel {
		return defaultLevelRollouts << (level - DefaultLevel)
	}
	return defaultLevelRollouts >> (DefaultLevel - level)
}

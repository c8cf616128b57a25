package data

// MaxLevel is the highest reachable hunter level.
const MaxLevel = 40

// Level describes the properties a hunter has at one level.
// Accuracy and Reliability are percentages. Clip is magazine capacity,
// Clips is how many magazines the hunter carries. Penalty fields are
// negative XP deltas applied on the corresponding mishap.
type Level struct {
	XP              int // cumulative XP required to hold this level
	Level           int
	Accuracy        int
	Reliability     int
	Clip            int
	Clips           int
	MissPenalty     int
	WildFirePenalty int
	AccidentPenalty int
}

// Levels holds the full promotion table, ordered by XP threshold.
// Higher levels trade bigger magazines for more of them until the top
// tiers, where capacity shrinks to a single precise shot per clip.
var Levels = [MaxLevel + 1]Level{
	{-5, 0, 55, 85, 6, 1, -1, -1, -4},
	{-4, 1, 55, 85, 6, 2, -1, -1, -4},
	{20, 2, 56, 86, 6, 2, -1, -1, -4},
	{50, 3, 57, 87, 6, 2, -1, -1, -4},
	{90, 4, 58, 88, 6, 2, -1, -1, -4},
	{140, 5, 59, 89, 6, 2, -1, -1, -4},
	{200, 6, 60, 90, 6, 2, -1, -1, -4},
	{270, 7, 65, 93, 4, 3, -1, -1, -4},
	{350, 8, 67, 93, 4, 3, -1, -1, -4},
	{440, 9, 69, 93, 4, 3, -1, -1, -4},
	{540, 10, 71, 94, 4, 3, -1, -2, -6},
	{650, 11, 73, 94, 4, 3, -1, -2, -6},
	{770, 12, 73, 94, 4, 3, -1, -2, -6},
	{900, 13, 74, 95, 4, 3, -1, -2, -6},
	{1040, 14, 74, 95, 4, 3, -1, -2, -6},
	{1190, 15, 75, 95, 4, 3, -1, -2, -6},
	{1350, 16, 80, 97, 2, 4, -1, -2, -6},
	{1520, 17, 81, 97, 2, 4, -1, -2, -6},
	{1700, 18, 81, 97, 2, 4, -1, -2, -6},
	{1890, 19, 82, 97, 2, 4, -1, -2, -6},
	{2090, 20, 82, 97, 2, 4, -3, -5, -10},
	{2300, 21, 83, 98, 2, 4, -3, -5, -10},
	{2520, 22, 83, 98, 2, 4, -3, -5, -10},
	{2750, 23, 84, 98, 2, 4, -3, -5, -10},
	{2990, 24, 84, 98, 2, 4, -3, -5, -10},
	{3240, 25, 85, 98, 2, 4, -3, -5, -10},
	{3500, 26, 90, 99, 1, 5, -3, -5, -10},
	{3770, 27, 91, 99, 1, 5, -3, -5, -10},
	{4050, 28, 91, 99, 1, 5, -3, -5, -10},
	{4340, 29, 92, 99, 1, 5, -3, -5, -10},
	{4640, 30, 92, 99, 1, 5, -5, -8, -20},
	{4950, 31, 93, 99, 1, 5, -5, -8, -20},
	{5270, 32, 93, 99, 1, 5, -5, -8, -20},
	{5600, 33, 94, 99, 1, 5, -5, -8, -20},
	{5940, 34, 94, 99, 1, 5, -5, -8, -20},
	{6290, 35, 95, 99, 1, 5, -5, -8, -20},
	{6650, 36, 95, 99, 1, 5, -5, -8, -20},
	{7020, 37, 96, 99, 1, 5, -5, -8, -20},
	{7400, 38, 96, 99, 1, 5, -5, -8, -20},
	{7790, 39, 97, 99, 1, 5, -5, -8, -20},
	{8200, 40, 97, 99, 1, 5, -5, -8, -20},
}

// LevelFor returns the level properties for the given cumulative XP.
// Picks the highest threshold not exceeding xp; XP below the bottom
// threshold clamps to level 0.
func LevelFor(xp int) Level {
	chosen := Levels[0]
	for _, l := range Levels {
		if xp >= l.XP {
			chosen = l
		}
	}
	return chosen
}

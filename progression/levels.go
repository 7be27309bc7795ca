// progression/levels.go - XP leveling table and calculator
package progression

import (
	"fmt"
	"math"
	"sort"
)

// LevelThreshold is one row of the leveling table. Rows are contiguous:
// a row's MaxXP equals the next row's MinXP. The top row is open-ended
// and uses math.MaxInt as its MaxXP.
type LevelThreshold struct {
	Level int `json:"level"`
	MinXP int `json:"min_xp"`
	MaxXP int `json:"max_xp"`
}

// DefaultLevels returns the standard 20-level table.
func DefaultLevels() []LevelThreshold {
	return []LevelThreshold{
		{Level: 1, MinXP: 0, MaxXP: 100},
		{Level: 2, MinXP: 100, MaxXP: 250},
		{Level: 3, MinXP: 250, MaxXP: 450},
		{Level: 4, MinXP: 450, MaxXP: 700},
		{Level: 5, MinXP: 700, MaxXP: 1000},
		{Level: 6, MinXP: 1000, MaxXP: 1350},
		{Level: 7, MinXP: 1350, MaxXP: 1750},
		{Level: 8, MinXP: 1750, MaxXP: 2200},
		{Level: 9, MinXP: 2200, MaxXP: 2700},
		{Level: 10, MinXP: 2700, MaxXP: 3250},
		{Level: 11, MinXP: 3250, MaxXP: 3850},
		{Level: 12, MinXP: 3850, MaxXP: 4500},
		{Level: 13, MinXP: 4500, MaxXP: 5200},
		{Level: 14, MinXP: 5200, MaxXP: 5950},
		{Level: 15, MinXP: 5950, MaxXP: 6750},
		{Level: 16, MinXP: 6750, MaxXP: 7600},
		{Level: 17, MinXP: 7600, MaxXP: 8500},
		{Level: 18, MinXP: 8500, MaxXP: 9450},
		{Level: 19, MinXP: 9450, MaxXP: 10450},
		{Level: 20, MinXP: 10450, MaxXP: math.MaxInt},
	}
}

// Calculator maps XP values to levels and progress metrics. It holds an
// immutable copy of its leveling table, so it is safe to share between
// goroutines.
type Calculator struct {
	levels []LevelThreshold
}

// NewCalculator builds a Calculator from the given table. The table must
// be non-empty, sorted by level with contiguous XP ranges.
func NewCalculator(levels []LevelThreshold) (*Calculator, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("leveling table is empty")
	}

	table := make([]LevelThreshold, len(levels))
	copy(table, levels)
	sort.Slice(table, func(i, j int) bool { return table[i].Level < table[j].Level })

	if table[0].MinXP != 0 {
		return nil, fmt.Errorf("leveling table must start at 0 XP, got %d", table[0].MinXP)
	}
	for i := 1; i < len(table); i++ {
		if table[i].MinXP != table[i-1].MaxXP {
			return nil, fmt.Errorf("leveling table has a gap between level %d and %d", table[i-1].Level, table[i].Level)
		}
	}

	return &Calculator{levels: table}, nil
}

// MustCalculator is NewCalculator for tables known to be valid, such as
// DefaultLevels.
func MustCalculator(levels []LevelThreshold) *Calculator {
	calc, err := NewCalculator(levels)
	if err != nil {
		panic(err)
	}
	return calc
}

// MaxLevel returns the highest level defined by the table.
func (c *Calculator) MaxLevel() int {
	return c.levels[len(c.levels)-1].Level
}

// Levels returns a copy of the leveling table.
func (c *Calculator) Levels() []LevelThreshold {
	out := make([]LevelThreshold, len(c.levels))
	copy(out, c.levels)
	return out
}

// Level returns the level for the given XP: the highest table entry
// whose MinXP does not exceed xp. Negative XP clamps to 0, so it maps
// to the first level. XP beyond the top entry saturates at the top
// level.
func (c *Calculator) Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	for i := len(c.levels) - 1; i >= 0; i-- {
		if xp >= c.levels[i].MinXP {
			return c.levels[i].Level
		}
	}
	return c.levels[0].Level
}

// XPForNextLevel returns how much XP is still needed to reach the next
// level. The second return value is false when the user is already at
// the top level.
func (c *Calculator) XPForNextLevel(xp int) (int, bool) {
	if xp < 0 {
		xp = 0
	}
	idx := c.thresholdIndex(xp)
	if idx == len(c.levels)-1 {
		return 0, false
	}
	return c.levels[idx+1].MinXP - xp, true
}

// ProgressPercent returns how far into the current level the given XP
// is, as an integer in [0, 100]. At the top level it is always 100.
func (c *Calculator) ProgressPercent(xp int) int {
	if xp < 0 {
		xp = 0
	}
	idx := c.thresholdIndex(xp)
	if idx == len(c.levels)-1 {
		return 100
	}

	cur := c.levels[idx]
	next := c.levels[idx+1]
	levelXP := xp - cur.MinXP
	levelRange := next.MinXP - cur.MinXP

	return int(math.Round(float64(levelXP) / float64(levelRange) * 100))
}

// XPResult describes the outcome of an XP change.
type XPResult struct {
	NewXP        int  `json:"new_xp"`
	NewLevel     int  `json:"new_level"`
	LeveledUp    bool `json:"leveled_up"`
	LevelsGained int  `json:"levels_gained"`
	LevelsLost   int  `json:"levels_lost"`
}

// AddXP applies an XP delta and reports level transitions. Deltas may
// be negative (mentor deductions); the resulting XP never drops below
// zero, and downward level crossings are reported via LevelsLost.
func (c *Calculator) AddXP(currentXP, delta int) XPResult {
	if currentXP < 0 {
		currentXP = 0
	}
	oldLevel := c.Level(currentXP)

	newXP := currentXP + delta
	if newXP < 0 {
		newXP = 0
	}
	newLevel := c.Level(newXP)

	res := XPResult{
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
	}
	if newLevel > oldLevel {
		res.LevelsGained = newLevel - oldLevel
	} else {
		res.LevelsLost = oldLevel - newLevel
	}
	return res
}

// thresholdIndex returns the table index containing xp (xp must be
// non-negative).
func (c *Calculator) thresholdIndex(xp int) int {
	for i := len(c.levels) - 1; i >= 0; i-- {
		if xp >= c.levels[i].MinXP {
			return i
		}
	}
	return 0
}

// BadgeForLevel maps a level to the coarse badge tier shown next to a
// user's name.
func BadgeForLevel(level int) BadgeTier {
	switch {
	case level >= 15:
		return TierPlatinum
	case level >= 10:
		return TierGold
	case level >= 5:
		return TierSilver
	default:
		return TierBronze
	}
}

// StreakBonus returns the extra XP awarded for an activity streak.
func StreakBonus(streak int) int {
	switch {
	case streak >= 30:
		return 100
	case streak >= 14:
		return 50
	case streak >= 7:
		return 25
	case streak >= 3:
		return 10
	default:
		return 0
	}
}

var missionBaseXP = map[string]int{
	"easy":   25,
	"medium": 50,
	"hard":   100,
	"expert": 200,
}

var missionMultipliers = map[string]float64{
	"tutorial":     1,
	"project":      2,
	"challenge":    1.5,
	"team":         1.2,
	"presentation": 1.8,
}

// MissionXP computes the XP value of a mission from its type and
// difficulty. Unknown difficulties fall back to medium, unknown types
// to a 1x multiplier.
func MissionXP(missionType, difficulty string) int {
	base, ok := missionBaseXP[difficulty]
	if !ok {
		base = missionBaseXP["medium"]
	}
	mult, ok := missionMultipliers[missionType]
	if !ok {
		mult = 1
	}
	return int(math.Round(float64(base) * mult))
}

// FormatXP renders an XP total for display, e.g. 1500 -> "1.5K".
func FormatXP(xp int) string {
	switch {
	case xp >= 1000000:
		return fmt.Sprintf("%.1fM", float64(xp)/1000000)
	case xp >= 1000:
		return fmt.Sprintf("%.1fK", float64(xp)/1000)
	default:
		return fmt.Sprintf("%d", xp)
	}
}

package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultLevels())
	require.NoError(t, err)
	return calc
}

func TestNewCalculatorRejectsBadTables(t *testing.T) {
	_, err := NewCalculator(nil)
	assert.Error(t, err)

	_, err = NewCalculator([]LevelThreshold{
		{Level: 1, MinXP: 50, MaxXP: 100},
	})
	assert.Error(t, err, "table must start at 0 XP")

	_, err = NewCalculator([]LevelThreshold{
		{Level: 1, MinXP: 0, MaxXP: 100},
		{Level: 2, MinXP: 150, MaxXP: 300},
	})
	assert.Error(t, err, "table must be contiguous")
}

func TestLevelFixedPoints(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{700, 5},
		{2200, 9},
		{2450, 9},
		{2699, 9},
		{2700, 10},
		{10449, 19},
		{10450, 20},
		{1000000, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, calc.Level(tc.xp), "xp=%d", tc.xp)
	}
}

func TestLevelClampsNegativeXP(t *testing.T) {
	calc := newTestCalculator(t)
	assert.Equal(t, 1, calc.Level(-500))
}

func TestLevelIsMonotonic(t *testing.T) {
	calc := newTestCalculator(t)

	prev := calc.Level(0)
	for xp := 1; xp <= 12000; xp++ {
		level := calc.Level(xp)
		require.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		require.LessOrEqual(t, level, calc.MaxLevel())
		prev = level
	}
}

func TestLevelIsPure(t *testing.T) {
	calc := newTestCalculator(t)
	assert.Equal(t, calc.Level(2450), calc.Level(2450))
}

func TestXPForNextLevel(t *testing.T) {
	calc := newTestCalculator(t)

	remaining, ok := calc.XPForNextLevel(0)
	assert.True(t, ok)
	assert.Equal(t, 100, remaining)

	remaining, ok = calc.XPForNextLevel(700)
	assert.True(t, ok)
	assert.Equal(t, 300, remaining)

	// Top level has no next level, distinguished from a numeric zero.
	_, ok = calc.XPForNextLevel(10450)
	assert.False(t, ok)
	_, ok = calc.XPForNextLevel(999999)
	assert.False(t, ok)
}

func TestProgressPercentBounds(t *testing.T) {
	calc := newTestCalculator(t)

	for xp := 0; xp <= 12000; xp += 7 {
		pct := calc.ProgressPercent(xp)
		require.GreaterOrEqual(t, pct, 0, "xp=%d", xp)
		require.LessOrEqual(t, pct, 100, "xp=%d", xp)
	}

	// Zero exactly at each level's floor, 100 at the ceiling.
	for _, lt := range DefaultLevels() {
		if lt.Level == calc.MaxLevel() {
			assert.Equal(t, 100, calc.ProgressPercent(lt.MinXP))
			continue
		}
		assert.Equal(t, 0, calc.ProgressPercent(lt.MinXP), "level=%d", lt.Level)
	}

	assert.Equal(t, 50, calc.ProgressPercent(50))
	assert.Equal(t, 99, calc.ProgressPercent(99))
	assert.Equal(t, 100, calc.ProgressPercent(10449)) // 999/1000 rounds up
	assert.Equal(t, 100, calc.ProgressPercent(20000))
}

func TestAddXPLevelUp(t *testing.T) {
	calc := newTestCalculator(t)

	res := calc.AddXP(700, 300)
	assert.Equal(t, 1000, res.NewXP)
	assert.Equal(t, 6, res.NewLevel)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.LevelsGained)
	assert.Equal(t, 0, res.LevelsLost)
}

func TestAddXPMultipleLevels(t *testing.T) {
	calc := newTestCalculator(t)

	res := calc.AddXP(0, 500)
	assert.Equal(t, 4, res.NewLevel)
	assert.Equal(t, 3, res.LevelsGained)
	assert.True(t, res.LeveledUp)
}

func TestAddXPNoChange(t *testing.T) {
	calc := newTestCalculator(t)

	res := calc.AddXP(150, 50)
	assert.Equal(t, 200, res.NewXP)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 0, res.LevelsGained)
	assert.Equal(t, 0, res.LevelsLost)
}

func TestAddXPDeduction(t *testing.T) {
	calc := newTestCalculator(t)

	res := calc.AddXP(1000, -400)
	assert.Equal(t, 600, res.NewXP)
	assert.Equal(t, 4, res.NewLevel)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 2, res.LevelsLost)

	// Deductions clamp at zero, never below.
	res = calc.AddXP(100, -500)
	assert.Equal(t, 0, res.NewXP)
	assert.Equal(t, 1, res.NewLevel)
}

func TestAddXPRoundTripConsistency(t *testing.T) {
	calc := newTestCalculator(t)

	for _, xp := range []int{0, 99, 700, 2450, 10449} {
		for _, delta := range []int{0, 1, 50, 300, 5000} {
			res := calc.AddXP(xp, delta)
			require.Equal(t, calc.Level(res.NewXP), res.NewLevel, "xp=%d delta=%d", xp, delta)
		}
	}
}

func TestAddXPWithSyntheticTable(t *testing.T) {
	calc, err := NewCalculator([]LevelThreshold{
		{Level: 1, MinXP: 0, MaxXP: 10},
		{Level: 2, MinXP: 10, MaxXP: 20},
		{Level: 3, MinXP: 20, MaxXP: 1 << 40},
	})
	require.NoError(t, err)

	res := calc.AddXP(5, 20)
	assert.Equal(t, 3, res.NewLevel)
	assert.Equal(t, 2, res.LevelsGained)

	_, ok := calc.XPForNextLevel(25)
	assert.False(t, ok)
}

func TestBadgeForLevel(t *testing.T) {
	assert.Equal(t, TierBronze, BadgeForLevel(1))
	assert.Equal(t, TierBronze, BadgeForLevel(4))
	assert.Equal(t, TierSilver, BadgeForLevel(5))
	assert.Equal(t, TierGold, BadgeForLevel(10))
	assert.Equal(t, TierPlatinum, BadgeForLevel(15))
	assert.Equal(t, TierPlatinum, BadgeForLevel(20))
}

func TestStreakBonus(t *testing.T) {
	assert.Equal(t, 0, StreakBonus(0))
	assert.Equal(t, 0, StreakBonus(2))
	assert.Equal(t, 10, StreakBonus(3))
	assert.Equal(t, 25, StreakBonus(7))
	assert.Equal(t, 50, StreakBonus(14))
	assert.Equal(t, 100, StreakBonus(30))
	assert.Equal(t, 100, StreakBonus(365))
}

func TestMissionXP(t *testing.T) {
	assert.Equal(t, 50, MissionXP("tutorial", "medium"))
	assert.Equal(t, 200, MissionXP("project", "hard"))
	assert.Equal(t, 75, MissionXP("challenge", "medium"))
	assert.Equal(t, 360, MissionXP("presentation", "expert"))

	// Unknown type keeps the base value, unknown difficulty falls back
	// to medium.
	assert.Equal(t, 25, MissionXP("unknown", "easy"))
	assert.Equal(t, 50, MissionXP("tutorial", "unknown"))
}

func TestFormatXP(t *testing.T) {
	assert.Equal(t, "0", FormatXP(0))
	assert.Equal(t, "999", FormatXP(999))
	assert.Equal(t, "1.5K", FormatXP(1500))
	assert.Equal(t, "10.4K", FormatXP(10450))
	assert.Equal(t, "2.5M", FormatXP(2500000))
}

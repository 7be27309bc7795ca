package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(DefaultRegistry(), newTestCalculator(t))
}

func earnedIDs(unlocked []EarnedAchievement) []string {
	ids := make([]string, 0, len(unlocked))
	for _, ea := range unlocked {
		ids = append(ids, ea.ID)
	}
	return ids
}

func TestCheckNewAchievementsFirstSteps(t *testing.T) {
	eval := newTestEvaluator(t)

	user := UserProgress{
		Missions: []MissionProgress{{ID: 1, XP: 100, Completed: true}},
	}

	unlocked := eval.CheckNewAchievements(user)
	require.NotEmpty(t, unlocked)

	ids := earnedIDs(unlocked)
	assert.Contains(t, ids, "first_steps")
	// A single completed mission out of one assigned also satisfies the
	// all-missions achievement.
	assert.Contains(t, ids, "mission_complete")
}

func TestCheckNewAchievementsSkipsEarned(t *testing.T) {
	eval := newTestEvaluator(t)

	user := UserProgress{
		Missions:     []MissionProgress{{ID: 1, Completed: true}},
		Achievements: []string{"first_steps", "mission_complete"},
	}

	unlocked := eval.CheckNewAchievements(user)
	assert.Empty(t, unlocked)
}

func TestCheckNewAchievementsSecondCallEmpty(t *testing.T) {
	eval := newTestEvaluator(t)

	user := UserProgress{Streak: 12}

	first := eval.CheckNewAchievements(user)
	require.Equal(t, []string{"streak_master"}, earnedIDs(first))

	// Caller commits the unlock; with no other state change the next
	// sweep finds nothing.
	for _, ea := range first {
		user.Achievements = append(user.Achievements, ea.ID)
	}
	assert.Empty(t, eval.CheckNewAchievements(user))
}

func TestCheckNewAchievementsStampsDate(t *testing.T) {
	eval := newTestEvaluator(t)

	before := time.Now()
	unlocked := eval.CheckNewAchievements(UserProgress{Streak: 10})
	after := time.Now()

	require.Len(t, unlocked, 1)
	assert.False(t, unlocked[0].DateEarned.Before(before))
	assert.False(t, unlocked[0].DateEarned.After(after))
}

func TestCheckNewAchievementsDoesNotMutateUser(t *testing.T) {
	eval := newTestEvaluator(t)

	user := UserProgress{Streak: 10, Achievements: []string{"first_steps"}}
	_ = eval.CheckNewAchievements(user)

	assert.Equal(t, []string{"first_steps"}, user.Achievements)
	assert.Equal(t, 10, user.Streak)
}

func TestCheckNewAchievementsRegistryOrder(t *testing.T) {
	eval := newTestEvaluator(t)

	// Trips team_player, streak_master and quiz_master at once; the
	// result must follow registry order, not satisfaction strength.
	user := UserProgress{
		MeetingsAttended: 5,
		Streak:           10,
		PerfectQuizzes:   5,
	}

	assert.Equal(t, []string{"team_player", "streak_master", "quiz_master"}, earnedIDs(eval.CheckNewAchievements(user)))
}

func TestCheckNewAchievementsLevelCondition(t *testing.T) {
	eval := newTestEvaluator(t)

	// Level 10 starts at 2700 XP; the level condition must derive the
	// level from XP, not trust a cached field.
	unlocked := eval.CheckNewAchievements(UserProgress{XP: 2699})
	assert.NotContains(t, earnedIDs(unlocked), "level_up_10")

	unlocked = eval.CheckNewAchievements(UserProgress{XP: 2700})
	assert.Contains(t, earnedIDs(unlocked), "level_up_10")
}

func TestCheckNewAchievementsXPMilestone(t *testing.T) {
	eval := newTestEvaluator(t)

	unlocked := eval.CheckNewAchievements(UserProgress{XP: 5000})
	ids := earnedIDs(unlocked)
	assert.Contains(t, ids, "xp_milestone_5000")
	assert.Contains(t, ids, "level_up_10") // 5000 XP is level 13
}

func TestCheckNewAchievementsAllMissionsNeedsAssignments(t *testing.T) {
	eval := newTestEvaluator(t)

	// No missions assigned means nothing to complete; the all-missions
	// achievement must not fire vacuously.
	unlocked := eval.CheckNewAchievements(UserProgress{})
	assert.NotContains(t, earnedIDs(unlocked), "mission_complete")

	unlocked = eval.CheckNewAchievements(UserProgress{
		Missions: []MissionProgress{
			{ID: 1, Completed: true},
			{ID: 2, Completed: false},
		},
	})
	ids := earnedIDs(unlocked)
	assert.Contains(t, ids, "first_steps")
	assert.NotContains(t, ids, "mission_complete")
}

func TestCheckNewAchievementsUnknownKindIsIsolated(t *testing.T) {
	registry := []AchievementDefinition{
		{ID: "broken", Title: "Broken", XPReward: 10, Tier: TierBronze, Condition: Condition{Kind: "no_such_kind"}},
		{ID: "streaker", Title: "Streaker", XPReward: 20, Tier: TierBronze, Condition: Condition{Kind: CondStreakAtLeast, Threshold: 1}},
	}
	eval := NewEvaluator(registry, newTestCalculator(t))

	unlocked := eval.CheckNewAchievements(UserProgress{Streak: 3})
	assert.Equal(t, []string{"streaker"}, earnedIDs(unlocked))
}

func TestBadgesByTierEmptyUser(t *testing.T) {
	eval := newTestEvaluator(t)

	counts := eval.BadgesByTier(UserProgress{})
	assert.Equal(t, map[BadgeTier]int{
		TierBronze:   0,
		TierSilver:   0,
		TierGold:     0,
		TierPlatinum: 0,
	}, counts)
}

func TestBadgesByTierCountsAndSkipsStaleIDs(t *testing.T) {
	eval := newTestEvaluator(t)

	user := UserProgress{Achievements: []string{
		"first_steps",       // bronze
		"team_player",       // silver
		"problem_solver",    // silver
		"streak_master",     // gold
		"xp_milestone_5000", // platinum
		"removed_long_ago",  // stale id, skipped
	}}

	counts := eval.BadgesByTier(user)
	assert.Equal(t, 1, counts[TierBronze])
	assert.Equal(t, 2, counts[TierSilver])
	assert.Equal(t, 1, counts[TierGold])
	assert.Equal(t, 1, counts[TierPlatinum])
}

func TestProgress(t *testing.T) {
	eval := newTestEvaluator(t)

	p := eval.Progress(UserProgress{})
	assert.Equal(t, BadgeProgress{Earned: 0, Total: 9, Percentage: 0}, p)

	p = eval.Progress(UserProgress{Achievements: []string{"first_steps", "team_player", "stale_id"}})
	assert.Equal(t, 2, p.Earned)
	assert.Equal(t, 9, p.Total)
	assert.Equal(t, 22, p.Percentage)
}

func TestNextBadgeToEarn(t *testing.T) {
	eval := newTestEvaluator(t)

	// Cheapest reward overall is first_steps at 50 XP.
	next, ok := eval.NextBadgeToEarn(UserProgress{})
	require.True(t, ok)
	assert.Equal(t, "first_steps", next.ID)

	// With first_steps earned, team_player and mentor_favorite tie at
	// 100 XP; registry order breaks the tie.
	next, ok = eval.NextBadgeToEarn(UserProgress{Achievements: []string{"first_steps"}})
	require.True(t, ok)
	assert.Equal(t, "team_player", next.ID)

	all := make([]string, 0, 9)
	for _, def := range eval.Registry() {
		all = append(all, def.ID)
	}
	_, ok = eval.NextBadgeToEarn(UserProgress{Achievements: all})
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	eval := newTestEvaluator(t)

	def, ok := eval.Lookup("quiz_master")
	require.True(t, ok)
	assert.Equal(t, 175, def.XPReward)
	assert.Equal(t, TierGold, def.Tier)

	_, ok = eval.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistryIsCopied(t *testing.T) {
	registry := DefaultRegistry()
	eval := NewEvaluator(registry, newTestCalculator(t))

	registry[0].XPReward = 99999

	def, ok := eval.Lookup("first_steps")
	require.True(t, ok)
	assert.Equal(t, 50, def.XPReward)
}

// progression/achievements.go - Achievement registry and evaluator
package progression

import (
	"sort"
	"time"
)

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

// AllTiers lists the badge tiers from lowest to highest prestige.
var AllTiers = []BadgeTier{TierBronze, TierSilver, TierGold, TierPlatinum}

// ConditionKind identifies an unlock rule. Conditions are plain data so
// the registry can live in the database and be edited by admins without
// shipping code.
type ConditionKind string

const (
	CondAnyMissionComplete    ConditionKind = "any_mission_complete"
	CondAllMissionsComplete   ConditionKind = "all_missions_complete"
	CondMeetingsAtLeast       ConditionKind = "meetings_at_least"
	CondStreakAtLeast         ConditionKind = "streak_at_least"
	CondChallengesAtLeast     ConditionKind = "challenges_at_least"
	CondMentorXPAtLeast       ConditionKind = "mentor_xp_at_least"
	CondPerfectQuizzesAtLeast ConditionKind = "perfect_quizzes_at_least"
	CondLevelAtLeast          ConditionKind = "level_at_least"
	CondXPAtLeast             ConditionKind = "xp_at_least"
)

// Condition is a declarative unlock rule: a kind plus an optional
// numeric threshold.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold int           `json:"threshold"`
}

// AchievementDefinition is one registry entry. IDs are the persistence
// key for "already earned" and must stay stable across versions.
type AchievementDefinition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	XPReward    int       `json:"xp_reward"`
	Tier        BadgeTier `json:"tier"`
	Condition   Condition `json:"condition"`
}

// MissionProgress is the slice of a mission the evaluator cares about.
type MissionProgress struct {
	ID        uint `json:"id"`
	XP        int  `json:"xp"`
	Completed bool `json:"completed"`
}

// UserProgress is a snapshot of the user state achievement conditions
// read. The evaluator never mutates it.
type UserProgress struct {
	XP                  int
	Streak              int
	MentorXP            int
	ChallengesCompleted int
	PerfectQuizzes      int
	MeetingsAttended    int
	Missions            []MissionProgress
	Achievements        []string // earned achievement ids
}

// EarnedAchievement is a freshly unlocked achievement stamped with the
// unlock date.
type EarnedAchievement struct {
	AchievementDefinition
	DateEarned time.Time `json:"date_earned"`
}

// BadgeProgress summarizes how much of the registry a user has earned.
type BadgeProgress struct {
	Earned     int `json:"earned"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// DefaultRegistry returns the standard cohort achievement set.
func DefaultRegistry() []AchievementDefinition {
	return []AchievementDefinition{
		{
			ID:          "first_steps",
			Title:       "First Steps",
			Description: "Complete your first mission",
			Icon:        "🎯",
			XPReward:    50,
			Tier:        TierBronze,
			Condition:   Condition{Kind: CondAnyMissionComplete},
		},
		{
			ID:          "team_player",
			Title:       "Team Player",
			Description: "Attend 5 team meetings",
			Icon:        "🤝",
			XPReward:    100,
			Tier:        TierSilver,
			Condition:   Condition{Kind: CondMeetingsAtLeast, Threshold: 5},
		},
		{
			ID:          "streak_master",
			Title:       "Streak Master",
			Description: "Maintain a 10-day activity streak",
			Icon:        "🔥",
			XPReward:    200,
			Tier:        TierGold,
			Condition:   Condition{Kind: CondStreakAtLeast, Threshold: 10},
		},
		{
			ID:          "problem_solver",
			Title:       "Problem Solver",
			Description: "Complete 10 coding challenges",
			Icon:        "🧩",
			XPReward:    150,
			Tier:        TierSilver,
			Condition:   Condition{Kind: CondChallengesAtLeast, Threshold: 10},
		},
		{
			ID:          "mentor_favorite",
			Title:       "Mentor's Favorite",
			Description: "Receive 500 XP from mentors",
			Icon:        "⭐",
			XPReward:    100,
			Tier:        TierGold,
			Condition:   Condition{Kind: CondMentorXPAtLeast, Threshold: 500},
		},
		{
			ID:          "quiz_master",
			Title:       "Quiz Master",
			Description: "Score 100% on 5 quizzes",
			Icon:        "🧠",
			XPReward:    175,
			Tier:        TierGold,
			Condition:   Condition{Kind: CondPerfectQuizzesAtLeast, Threshold: 5},
		},
		{
			ID:          "mission_complete",
			Title:       "Mission Accomplished",
			Description: "Complete all assigned missions",
			Icon:        "✅",
			XPReward:    250,
			Tier:        TierPlatinum,
			Condition:   Condition{Kind: CondAllMissionsComplete},
		},
		{
			ID:          "level_up_10",
			Title:       "Rising Star",
			Description: "Reach level 10",
			Icon:        "🌟",
			XPReward:    300,
			Tier:        TierGold,
			Condition:   Condition{Kind: CondLevelAtLeast, Threshold: 10},
		},
		{
			ID:          "xp_milestone_5000",
			Title:       "XP Champion",
			Description: "Earn 5000 total XP",
			Icon:        "🏆",
			XPReward:    500,
			Tier:        TierPlatinum,
			Condition:   Condition{Kind: CondXPAtLeast, Threshold: 5000},
		},
	}
}

// Evaluator checks achievement conditions against user snapshots. The
// registry is copied at construction and never modified afterwards.
// Level-based conditions are resolved through the calculator rather
// than any cached level on the user.
type Evaluator struct {
	registry []AchievementDefinition
	byID     map[string]AchievementDefinition
	calc     *Calculator
}

// NewEvaluator builds an Evaluator over the given registry. Registry
// order is preserved and determines evaluation order.
func NewEvaluator(registry []AchievementDefinition, calc *Calculator) *Evaluator {
	defs := make([]AchievementDefinition, len(registry))
	copy(defs, registry)

	byID := make(map[string]AchievementDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	return &Evaluator{registry: defs, byID: byID, calc: calc}
}

// Registry returns a copy of the achievement definitions in evaluation
// order.
func (e *Evaluator) Registry() []AchievementDefinition {
	out := make([]AchievementDefinition, len(e.registry))
	copy(out, e.registry)
	return out
}

// Lookup returns the definition for an achievement id.
func (e *Evaluator) Lookup(id string) (AchievementDefinition, bool) {
	def, ok := e.byID[id]
	return def, ok
}

// CheckNewAchievements returns every achievement the user now satisfies
// but has not yet earned, stamped with the current date, in registry
// order. It does not apply XP rewards; callers grant those explicitly.
func (e *Evaluator) CheckNewAchievements(user UserProgress) []EarnedAchievement {
	earned := make(map[string]bool, len(user.Achievements))
	for _, id := range user.Achievements {
		earned[id] = true
	}

	now := time.Now()
	var unlocked []EarnedAchievement
	for _, def := range e.registry {
		if earned[def.ID] {
			continue
		}
		if e.satisfied(def.Condition, user) {
			unlocked = append(unlocked, EarnedAchievement{
				AchievementDefinition: def,
				DateEarned:            now,
			})
		}
	}
	return unlocked
}

// satisfied interprets a condition against the snapshot. Unknown kinds
// count as not satisfied so a bad registry row can never block the
// rest of the evaluation.
func (e *Evaluator) satisfied(cond Condition, user UserProgress) bool {
	switch cond.Kind {
	case CondAnyMissionComplete:
		for _, m := range user.Missions {
			if m.Completed {
				return true
			}
		}
		return false
	case CondAllMissionsComplete:
		if len(user.Missions) == 0 {
			return false
		}
		for _, m := range user.Missions {
			if !m.Completed {
				return false
			}
		}
		return true
	case CondMeetingsAtLeast:
		return user.MeetingsAttended >= cond.Threshold
	case CondStreakAtLeast:
		return user.Streak >= cond.Threshold
	case CondChallengesAtLeast:
		return user.ChallengesCompleted >= cond.Threshold
	case CondMentorXPAtLeast:
		return user.MentorXP >= cond.Threshold
	case CondPerfectQuizzesAtLeast:
		return user.PerfectQuizzes >= cond.Threshold
	case CondLevelAtLeast:
		return e.calc.Level(user.XP) >= cond.Threshold
	case CondXPAtLeast:
		return user.XP >= cond.Threshold
	default:
		return false
	}
}

// BadgesByTier counts the user's earned achievements per badge tier.
// Every tier is present in the result, and ids no longer in the
// registry are skipped.
func (e *Evaluator) BadgesByTier(user UserProgress) map[BadgeTier]int {
	counts := make(map[BadgeTier]int, len(AllTiers))
	for _, tier := range AllTiers {
		counts[tier] = 0
	}
	for _, id := range user.Achievements {
		if def, ok := e.byID[id]; ok {
			counts[def.Tier]++
		}
	}
	return counts
}

// Progress reports how many registry achievements the user has earned.
func (e *Evaluator) Progress(user UserProgress) BadgeProgress {
	earned := 0
	for _, id := range user.Achievements {
		if _, ok := e.byID[id]; ok {
			earned++
		}
	}
	total := len(e.registry)

	pct := 0
	if total > 0 {
		pct = int(float64(earned)/float64(total)*100 + 0.5)
	}
	return BadgeProgress{Earned: earned, Total: total, Percentage: pct}
}

// NextBadgeToEarn suggests the easiest unearned achievement: lowest XP
// reward, ties broken by registry order. The second return value is
// false when everything has been earned.
func (e *Evaluator) NextBadgeToEarn(user UserProgress) (AchievementDefinition, bool) {
	earned := make(map[string]bool, len(user.Achievements))
	for _, id := range user.Achievements {
		earned[id] = true
	}

	var remaining []AchievementDefinition
	for _, def := range e.registry {
		if !earned[def.ID] {
			remaining = append(remaining, def)
		}
	}
	if len(remaining) == 0 {
		return AchievementDefinition{}, false
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].XPReward < remaining[j].XPReward
	})
	return remaining[0], true
}

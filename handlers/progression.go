// handlers/progression.go
package handlers

import (
	"log"
	"time"

	"cohortquest/database"
	"cohortquest/middleware"
	"cohortquest/models"
	"cohortquest/progression"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	levels *progression.Calculator
	badges *progression.Evaluator
)

// InitProgression builds the leveling calculator and the achievement
// evaluator from the seeded registry. Must run after database.InitDB.
func InitProgression() {
	levels = progression.MustCalculator(progression.DefaultLevels())

	registry, err := database.LoadRegistry(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to load achievement registry: %v", err)
	}
	badges = progression.NewEvaluator(registry, levels)
	log.Printf("✅ Progression engine ready (%d levels, %d achievements)", levels.MaxLevel(), len(registry))
}

// ReloadRegistry rebuilds the evaluator after the admin edits the
// achievement registry.
func ReloadRegistry() error {
	registry, err := database.LoadRegistry(database.GetDB())
	if err != nil {
		return err
	}
	badges = progression.NewEvaluator(registry, levels)
	return nil
}

type AwardXPRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// snapshotProgress assembles the pure evaluator input from a user row
// and their mission/achievement state.
func snapshotProgress(tx *gorm.DB, user *models.User) (progression.UserProgress, error) {
	snap := progression.UserProgress{
		XP:                  user.XP,
		Streak:              user.Streak,
		MentorXP:            user.MentorXP,
		ChallengesCompleted: user.ChallengesCompleted,
		PerfectQuizzes:      user.PerfectQuizzes,
		MeetingsAttended:    user.MeetingsAttended,
	}

	var missions []models.UserMission
	if err := tx.Where("user_id = ?", user.ID).Order("id ASC").Find(&missions).Error; err != nil {
		return snap, err
	}
	for _, m := range missions {
		snap.Missions = append(snap.Missions, progression.MissionProgress{
			ID:        m.MissionID,
			XP:        m.XPEarned,
			Completed: m.Completed,
		})
	}

	var earned []string
	if err := tx.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).Pluck("achievement_id", &earned).Error; err != nil {
		return snap, err
	}
	snap.Achievements = earned

	return snap, nil
}

// applyXP commits an XP delta for a user, records the ledger entry and
// unlocks any achievements the new state satisfies. Achievement XP
// rewards are granted here, as an explicit follow-up grant, not by the
// evaluator itself. The user row is updated but not saved; callers
// save inside their transaction.
func applyXP(tx *gorm.DB, user *models.User, delta int, source, reason string, actorID *uint) (progression.XPResult, []progression.EarnedAchievement, error) {
	res := levels.AddXP(user.XP, delta)
	user.XP = res.NewXP
	user.Level = res.NewLevel

	if delta != 0 {
		event := models.XPEvent{
			UserID:  user.ID,
			ActorID: actorID,
			Amount:  delta,
			Source:  source,
			Reason:  reason,
		}
		if err := tx.Create(&event).Error; err != nil {
			return res, nil, err
		}
	}

	snap, err := snapshotProgress(tx, user)
	if err != nil {
		return res, nil, err
	}

	unlocked := badges.CheckNewAchievements(snap)
	for _, ea := range unlocked {
		row := models.UserAchievement{
			UserID:        user.ID,
			AchievementID: ea.ID,
			UnlockedAt:    ea.DateEarned,
		}
		if err := tx.Create(&row).Error; err != nil {
			return res, unlocked, err
		}

		if ea.XPReward > 0 {
			rewardRes := levels.AddXP(user.XP, ea.XPReward)
			user.XP = rewardRes.NewXP
			user.Level = rewardRes.NewLevel
			if rewardRes.LeveledUp {
				res.LeveledUp = true
				res.LevelsGained += rewardRes.LevelsGained
			}
			res.NewXP = rewardRes.NewXP
			res.NewLevel = rewardRes.NewLevel

			reward := models.XPEvent{
				UserID: user.ID,
				Amount: ea.XPReward,
				Source: models.XPSourceAchievement,
				Reason: ea.Title,
			}
			if err := tx.Create(&reward).Error; err != nil {
				return res, unlocked, err
			}
		}
	}

	return res, unlocked, nil
}

// AwardXP grants XP to the authenticated user.
func AwardXP(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AwardXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "XP amount must be positive"})
	}

	db := database.GetDB()
	var user models.User

	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	res, unlocked, err := applyXP(tx, &user, req.Amount, models.XPSourceAward, req.Reason, nil)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to award XP"})
	}

	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"xp_awarded":       req.Amount,
		"current_xp":       user.XP,
		"new_level":        user.Level,
		"leveled_up":       res.LeveledUp,
		"levels_gained":    res.LevelsGained,
		"new_achievements": unlocked,
		"reason":           req.Reason,
	})
}

// GetProgression returns the authenticated user's leveling snapshot.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User

	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	response := fiber.Map{
		"success":          true,
		"level":            levels.Level(user.XP),
		"xp":               user.XP,
		"xp_display":       progression.FormatXP(user.XP),
		"progress_percent": levels.ProgressPercent(user.XP),
		"level_badge":      progression.BadgeForLevel(levels.Level(user.XP)),
		"streak":           user.Streak,
		"best_streak":      user.BestStreak,
		"streak_bonus":     progression.StreakBonus(user.Streak),
		"max_level":        false,
	}

	if remaining, ok := levels.XPForNextLevel(user.XP); ok {
		response["xp_to_next_level"] = remaining
	} else {
		response["max_level"] = true
	}

	return c.JSON(response)
}

// GetUserAchievements lists the full registry annotated with the
// user's unlock state.
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var unlocked []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Order("unlocked_at DESC").Find(&unlocked).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	unlockedMap := make(map[string]time.Time, len(unlocked))
	for _, ua := range unlocked {
		unlockedMap[ua.AchievementID] = ua.UnlockedAt
	}

	registry := badges.Registry()
	achievements := make([]fiber.Map, 0, len(registry))
	for _, def := range registry {
		achData := fiber.Map{
			"id":          def.ID,
			"title":       def.Title,
			"description": def.Description,
			"icon":        def.Icon,
			"tier":        def.Tier,
			"xp_reward":   def.XPReward,
			"unlocked":    false,
		}
		if at, ok := unlockedMap[def.ID]; ok {
			achData["unlocked"] = true
			achData["unlocked_at"] = at
		}
		achievements = append(achievements, achData)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
		"total":        len(registry),
		"unlocked":     len(unlocked),
	})
}

// GetBadges summarizes the user's earned badges per tier.
func GetBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User

	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	snap, err := snapshotProgress(db, &user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load user progress"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"by_tier":  badges.BadgesByTier(snap),
		"progress": badges.Progress(snap),
	})
}

// GetNextBadge suggests the easiest achievement still locked for the
// user.
func GetNextBadge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User

	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	snap, err := snapshotProgress(db, &user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load user progress"})
	}

	next, ok := badges.NextBadgeToEarn(snap)
	if !ok {
		return c.JSON(fiber.Map{
			"success":    true,
			"next_badge": nil,
			"message":    "All achievements earned",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"next_badge": next,
	})
}

// GetXPHistory returns the user's XP ledger, newest first.
func GetXPHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	db := database.GetDB()
	var events []models.XPEvent
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch XP history"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
	})
}

// handlers/missions.go
package handlers

import (
	"time"

	"cohortquest/database"
	"cohortquest/middleware"
	"cohortquest/models"
	"cohortquest/progression"

	"github.com/gofiber/fiber/v2"
)

// GetMissions lists the authenticated user's mission assignments.
func GetMissions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var assignments []models.UserMission
	if err := db.Preload("Mission").Where("user_id = ?", userID).Order("id ASC").Find(&assignments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch missions"})
	}

	completed := 0
	for _, a := range assignments {
		if a.Completed {
			completed++
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"missions":  assignments,
		"total":     len(assignments),
		"completed": completed,
	})
}

// CompleteMission marks a mission assignment done and grants its XP
// plus any streak bonus.
func CompleteMission(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	missionID, err := c.ParamsInt("id")
	if err != nil || missionID < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var assignment models.UserMission
	if err := db.Preload("Mission").Where("user_id = ? AND mission_id = ?", userID, missionID).First(&assignment).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Mission not assigned to user"})
	}

	if assignment.Completed {
		return c.Status(409).JSON(fiber.Map{"error": "Mission already completed"})
	}

	xp := 0
	reason := "Mission completed"
	if assignment.Mission != nil {
		xp = assignment.Mission.XP
		if xp == 0 {
			xp = progression.MissionXP(assignment.Mission.Type, assignment.Mission.Difficulty)
		}
		reason = assignment.Mission.Title
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	touchStreak(&user)
	bonus := progression.StreakBonus(user.Streak)

	now := time.Now()
	assignment.Completed = true
	assignment.CompletedAt = &now
	assignment.XPEarned = xp
	if err := tx.Save(&assignment).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update mission"})
	}

	res, unlocked, err := applyXP(tx, &user, xp, models.XPSourceMission, reason, nil)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to award mission XP"})
	}

	if bonus > 0 {
		bonusRes, bonusUnlocks, err := applyXP(tx, &user, bonus, models.XPSourceStreak, "Streak bonus", nil)
		if err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"error": "Failed to award streak bonus"})
		}
		res.NewXP = bonusRes.NewXP
		res.NewLevel = bonusRes.NewLevel
		if bonusRes.LeveledUp {
			res.LeveledUp = true
			res.LevelsGained += bonusRes.LevelsGained
		}
		unlocked = append(unlocked, bonusUnlocks...)
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
		"xp_earned":        xp,
		"streak_bonus":     bonus,
		"streak":           user.Streak,
		"current_xp":       user.XP,
		"new_level":        user.Level,
		"leveled_up":       res.LeveledUp,
		"levels_gained":    res.LevelsGained,
		"new_achievements": unlocked,
	})
}

// RecordMeeting counts an attended team meeting for the user.
func RecordMeeting(c *fiber.Ctx) error {
	return recordActivity(c, func(user *models.User) (int, string) {
		user.MeetingsAttended++
		return 50, "Team meeting attended"
	})
}

// RecordChallenge counts a completed coding challenge for the user.
func RecordChallenge(c *fiber.Ctx) error {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	_ = c.BodyParser(&req)
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	return recordActivity(c, func(user *models.User) (int, string) {
		user.ChallengesCompleted++
		return progression.MissionXP("challenge", req.Difficulty), "Coding challenge completed"
	})
}

// recordActivity applies a counter bump plus XP grant inside one
// transaction, re-running the achievement sweep afterwards.
func recordActivity(c *fiber.Ctx, apply func(user *models.User) (int, string)) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
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

	touchStreak(&user)
	xp, reason := apply(&user)

	res, unlocked, err := applyXP(tx, &user, xp, models.XPSourceAward, reason, nil)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record activity"})
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
		"xp_earned":        xp,
		"current_xp":       user.XP,
		"new_level":        user.Level,
		"leveled_up":       res.LeveledUp,
		"new_achievements": unlocked,
	})
}

// touchStreak advances the user's daily activity streak: consecutive
// days extend it, a gap resets it to 1, repeat activity on the same
// day leaves it unchanged.
func touchStreak(user *models.User) {
	today := time.Now().Truncate(24 * time.Hour)

	if user.LastActivity == nil {
		user.Streak = 1
	} else {
		last := user.LastActivity.Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			// already counted today
		case last.Equal(today.AddDate(0, 0, -1)):
			user.Streak++
		default:
			user.Streak = 1
		}
	}

	if user.Streak > user.BestStreak {
		user.BestStreak = user.Streak
	}
	now := time.Now()
	user.LastActivity = &now
}

// AssignMission creates a mission assignment for a student. Mentors,
// floorwings and admins only.
func AssignMission(c *fiber.Ctx) error {
	var req struct {
		UserID    uint `json:"user_id"`
		MissionID uint `json:"mission_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var mission models.Mission
	if err := db.First(&mission, req.MissionID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Mission not found"})
	}

	var student models.User
	if err := db.First(&student, req.UserID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var existing int64
	db.Model(&models.UserMission{}).Where("user_id = ? AND mission_id = ?", req.UserID, req.MissionID).Count(&existing)
	if existing > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "Mission already assigned"})
	}

	assignment := models.UserMission{
		UserID:    req.UserID,
		MissionID: req.MissionID,
	}
	if err := db.Create(&assignment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to assign mission"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"assignment": assignment,
	})
}

// handlers/stats.go - Cohort-wide statistics
package handlers

import (
	"time"

	"cohortquest/database"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetCohortStats returns headline numbers for the dashboards.
func GetCohortStats(c *fiber.Ctx) error {
	db := database.GetDB()

	var students, mentors int64
	db.Model(&models.User{}).Where("is_guest = ? AND role = ?", false, models.RoleStudent).Count(&students)
	db.Model(&models.User{}).Where("role = ?", models.RoleMentor).Count(&mentors)

	var totalXP int64
	db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Select("COALESCE(SUM(xp), 0)").Scan(&totalXP)

	var missionsCompleted int64
	db.Model(&models.UserMission{}).Where("completed = ?", true).Count(&missionsCompleted)

	var achievementsUnlocked int64
	db.Model(&models.UserAchievement{}).Count(&achievementsUnlocked)

	return c.JSON(fiber.Map{
		"success":               true,
		"students":              students,
		"mentors":               mentors,
		"total_xp":              totalXP,
		"missions_completed":    missionsCompleted,
		"achievements_unlocked": achievementsUnlocked,
	})
}

// GetOnlineCount counts users active in the last five minutes.
func GetOnlineCount(c *fiber.Ctx) error {
	db := database.GetDB()

	cutoffTime := time.Now().Add(-5 * time.Minute)

	var count int64
	if err := db.Model(&models.User{}).Where("last_activity > ?", cutoffTime).Count(&count).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to get online count",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

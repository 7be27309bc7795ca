// handlers/leaderboard.go
package handlers

import (
	"cohortquest/database"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

func leaderboardOrder(category string) string {
	switch category {
	case "level":
		return "level DESC, xp DESC"
	case "streak":
		return "best_streak DESC, xp DESC"
	case "quizzes":
		return "perfect_quizzes DESC, xp DESC"
	default: // xp
		return "xp DESC, level DESC, username ASC"
	}
}

// GetLeaderboard returns the cohort ranking.
// GET /api/leaderboard?category=xp&floor=Floor%20A&limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	category := c.Query("category", "xp")
	floor := c.Query("floor")
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()

	query := db.Where("is_guest = ? AND role = ?", false, models.RoleStudent)
	if floor != "" {
		query = query.Where("floor = ?", floor)
	}

	var users []models.User
	if err := query.Order(leaderboardOrder(category)).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	// Remove sensitive data
	for i := range users {
		users[i].Password = ""
		users[i].Email = nil
	}

	var total int64
	countQuery := db.Model(&models.User{}).Where("is_guest = ? AND role = ?", false, models.RoleStudent)
	if floor != "" {
		countQuery = countQuery.Where("floor = ?", floor)
	}
	countQuery.Count(&total)

	return c.JSON(fiber.Map{
		"success":  true,
		"users":    users,
		"category": category,
		"floor":    floor,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetUserRank returns one user's position in the ranking.
// GET /api/leaderboard/user/:id?category=xp
func GetUserRank(c *fiber.Ctx) error {
	userID := c.Params("id")
	category := c.Query("category", "xp")

	db := database.GetDB()
	var user models.User

	if err := db.Where("id = ? OR username = ?", userID, userID).First(&user).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var rank int64
	base := "SELECT COUNT(*) + 1 FROM users WHERE is_guest = false AND role = 'student' AND "
	switch category {
	case "level":
		db.Raw(base+"(level > ? OR (level = ? AND xp > ?))", user.Level, user.Level, user.XP).Scan(&rank)
	case "streak":
		db.Raw(base+"best_streak > ?", user.BestStreak).Scan(&rank)
	case "quizzes":
		db.Raw(base+"perfect_quizzes > ?", user.PerfectQuizzes).Scan(&rank)
	default:
		db.Raw(base+"xp > ?", user.XP).Scan(&rank)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"user_id":  user.ID,
		"username": user.Username,
		"rank":     rank,
		"category": category,
	})
}

// GetFloorLeaderboard aggregates XP per floor for the floorwing view.
func GetFloorLeaderboard(c *fiber.Ctx) error {
	db := database.GetDB()

	type FloorEntry struct {
		Floor     string `json:"floor"`
		Students  int    `json:"students"`
		TotalXP   int    `json:"total_xp"`
		AverageXP int    `json:"average_xp"`
	}

	var entries []FloorEntry
	db.Raw(`
		SELECT
			floor,
			COUNT(*) as students,
			COALESCE(SUM(xp), 0) as total_xp,
			COALESCE(AVG(xp), 0) as average_xp
		FROM users
		WHERE is_guest = false AND role = 'student' AND floor <> ''
		GROUP BY floor
		ORDER BY total_xp DESC
	`).Scan(&entries)

	return c.JSON(fiber.Map{
		"success": true,
		"floors":  entries,
	})
}

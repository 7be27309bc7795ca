// handlers/admin/users.go - User management
package admin

import (
	"cohortquest/database"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers lists users with optional role/floor filters.
func GetUsers(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if floor := c.Query("floor"); floor != "" {
		query = query.Where("floor = ?", floor)
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	for i := range users {
		users[i].Password = ""
	}

	var total int64
	query.Count(&total)

	return c.JSON(fiber.Map{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetUser returns one user with their full progression state.
func GetUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.Preload("Achievements").Preload("Missions.Mission").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	user.Password = ""
	return c.JSON(user)
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Floor       *string `json:"floor"`
	MentorID    *uint   `json:"mentor_id"`
}

// UpdateUser changes role, floor or mentor assignment.
func UpdateUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleStudent, models.RoleMentor, models.RoleFloorwing, models.RoleAdmin:
			user.Role = *req.Role
		default:
			return c.Status(400).JSON(fiber.Map{"error": "Invalid role"})
		}
	}
	if req.Floor != nil {
		user.Floor = *req.Floor
	}
	if req.MentorID != nil {
		user.MentorID = req.MentorID
	}

	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	user.Password = ""
	return c.JSON(user)
}

// BanUser toggles the banned flag.
func BanUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsBanned = !user.IsBanned
	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{
		"user_id":   user.ID,
		"is_banned": user.IsBanned,
	})
}

// DeleteUser removes a user and their progression rows.
func DeleteUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	tx := db.Begin()
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserAchievement{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user data"})
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserMission{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user data"})
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.XPEvent{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user data"})
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// GetAnalytics returns aggregate numbers for the admin dashboard.
func GetAnalytics(c *fiber.Ctx) error {
	db := database.GetDB()

	type tierCount struct {
		Tier  string `json:"tier"`
		Count int64  `json:"count"`
	}

	var tiers []tierCount
	db.Raw(`
		SELECT a.tier AS tier, COUNT(*) AS count
		FROM user_achievements ua
		JOIN achievements a ON a.key = ua.achievement_id
		GROUP BY a.tier
	`).Scan(&tiers)

	type levelCount struct {
		Level int   `json:"level"`
		Count int64 `json:"count"`
	}

	var distribution []levelCount
	db.Raw(`
		SELECT level, COUNT(*) AS count
		FROM users
		WHERE is_guest = false AND role = 'student'
		GROUP BY level
		ORDER BY level
	`).Scan(&distribution)

	var totalEvents int64
	db.Model(&models.XPEvent{}).Count(&totalEvents)

	return c.JSON(fiber.Map{
		"badges_by_tier":     tiers,
		"level_distribution": distribution,
		"xp_events":          totalEvents,
	})
}

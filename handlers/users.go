// handlers/users.go
package handlers

import (
	"cohortquest/database"
	"cohortquest/middleware"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the authenticated user's full record.
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Preload("Achievements").Preload("Missions.Mission").First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
}

// UpdateCurrentUser updates the authenticated user's profile fields.
func UpdateCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetUserProfile returns a public view of any user.
func GetUserProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user id"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Preload("Achievements").First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	user.Password = ""
	user.Email = nil

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// SearchUsers finds users by username or display name.
func SearchUsers(c *fiber.Ctx) error {
	q := c.Query("q")
	if len(q) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "Query must be at least 2 characters"})
	}

	db := database.GetDB()
	var users []models.User
	if err := db.Where("is_guest = ? AND (username ILIKE ? OR display_name ILIKE ?)", false, "%"+q+"%", "%"+q+"%").
		Limit(20).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Search failed"})
	}

	for i := range users {
		users[i].Password = ""
		users[i].Email = nil
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

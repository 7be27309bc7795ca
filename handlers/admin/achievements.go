// handlers/admin/achievements.go - Achievement registry management
package admin

import (
	"cohortquest/database"
	"cohortquest/handlers"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements returns the full registry in evaluation order.
func GetAchievements(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievements []models.Achievement
	if err := db.Order("sort_order ASC, id ASC").Find(&achievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(achievements)
}

// CreateAchievement adds a registry entry.
func CreateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievement models.Achievement
	if err := c.BodyParser(&achievement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if achievement.Key == "" || achievement.Title == "" || achievement.ConditionKind == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Key, title and condition kind are required"})
	}

	if err := db.Create(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	if err := handlers.ReloadRegistry(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Achievement created but registry reload failed"})
	}

	return c.Status(201).JSON(achievement)
}

// UpdateAchievement updates a registry entry. The key stays immutable
// since earned rows reference it.
func UpdateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var achievement models.Achievement
	if err := db.First(&achievement, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	key := achievement.Key
	if err := c.BodyParser(&achievement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	achievement.Key = key

	if err := db.Save(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update achievement"})
	}

	if err := handlers.ReloadRegistry(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Achievement updated but registry reload failed"})
	}

	return c.JSON(achievement)
}

// DeleteAchievement removes a registry entry. Earned rows referencing
// it stay in place; the evaluator and counters skip stale ids.
func DeleteAchievement(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	if err := db.Delete(&models.Achievement{}, id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	if err := handlers.ReloadRegistry(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Achievement deleted but registry reload failed"})
	}

	return c.JSON(fiber.Map{
		"message": "Achievement deleted successfully",
	})
}

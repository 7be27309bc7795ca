// handlers/admin/missions.go - Mission catalog management
package admin

import (
	"cohortquest/database"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetMissions lists the mission catalog.
func GetMissions(c *fiber.Ctx) error {
	db := database.GetDB()

	var missions []models.Mission
	if err := db.Order("id ASC").Find(&missions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch missions"})
	}

	return c.JSON(missions)
}

// CreateMission adds a mission to the catalog.
func CreateMission(c *fiber.Ctx) error {
	db := database.GetDB()

	var mission models.Mission
	if err := c.BodyParser(&mission); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if mission.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	if err := db.Create(&mission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create mission"})
	}

	return c.Status(201).JSON(mission)
}

// UpdateMission edits a catalog entry.
func UpdateMission(c *fiber.Ctx) error {
	db := database.GetDB()

	var mission models.Mission
	if err := db.First(&mission, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Mission not found"})
	}

	if err := c.BodyParser(&mission); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := db.Save(&mission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update mission"})
	}

	return c.JSON(mission)
}

// DeleteMission deactivates a mission rather than removing it, so
// completed assignments keep their history.
func DeleteMission(c *fiber.Ctx) error {
	db := database.GetDB()

	var mission models.Mission
	if err := db.First(&mission, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Mission not found"})
	}

	mission.IsActive = false
	if err := db.Save(&mission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate mission"})
	}

	return c.JSON(fiber.Map{
		"message": "Mission deactivated",
	})
}

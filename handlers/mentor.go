// handlers/mentor.go - Mentor XP grants and roster views
package handlers

import (
	"cohortquest/database"
	"cohortquest/middleware"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

type MentorXPRequest struct {
	StudentID uint   `json:"student_id"`
	Amount    int    `json:"amount"`
	Feedback  string `json:"feedback"`
}

// GetMentorStudents returns the mentor's roster with summary stats.
func GetMentorStudents(c *fiber.Ctx) error {
	mentorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var students []models.User
	if err := db.Where("mentor_id = ?", mentorID).Order("xp DESC").Find(&students).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	totalXP := 0
	totalStreak := 0
	for i := range students {
		students[i].Password = ""
		students[i].Email = nil
		totalXP += students[i].XP
		totalStreak += students[i].Streak
	}

	avgXP := 0
	avgStreak := 0
	if len(students) > 0 {
		avgXP = totalXP / len(students)
		avgStreak = totalStreak / len(students)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"students":   students,
		"total":      len(students),
		"avg_xp":     avgXP,
		"avg_streak": avgStreak,
	})
}

// MentorAwardXP grants XP to one of the mentor's students. The grant
// counts towards the student's mentor-XP achievement track.
func MentorAwardXP(c *fiber.Ctx) error {
	return mentorAdjustXP(c, false)
}

// MentorDeductXP removes XP from a student. The student's XP never
// drops below zero and downward level crossings are reported.
func MentorDeductXP(c *fiber.Ctx) error {
	return mentorAdjustXP(c, true)
}

func mentorAdjustXP(c *fiber.Ctx, deduct bool) error {
	mentorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req MentorXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "XP amount must be positive"})
	}

	db := database.GetDB()

	var mentor models.User
	if err := db.First(&mentor, mentorID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Mentor not found"})
	}

	var student models.User
	if err := db.First(&student, req.StudentID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
	}

	// Mentors may only touch their own students; floorwings and admins
	// may touch anyone.
	if mentor.Role == models.RoleMentor && (student.MentorID == nil || *student.MentorID != mentor.ID) {
		return c.Status(403).JSON(fiber.Map{"error": "Student is not assigned to you"})
	}

	delta := req.Amount
	if deduct {
		delta = -req.Amount
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if !deduct {
		student.MentorXP += req.Amount
		mentor.TotalXPGiven += req.Amount
		if err := tx.Model(&mentor).Update("total_xp_given", mentor.TotalXPGiven).Error; err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update mentor"})
		}
	}

	res, unlocked, err := applyXP(tx, &student, delta, models.XPSourceMentor, req.Feedback, &mentor.ID)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to adjust XP"})
	}

	if err := tx.Save(&student).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update student"})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	response := fiber.Map{
		"success":          true,
		"student_id":       student.ID,
		"amount":           delta,
		"current_xp":       student.XP,
		"new_level":        student.Level,
		"leveled_up":       res.LeveledUp,
		"levels_gained":    res.LevelsGained,
		"levels_lost":      res.LevelsLost,
		"new_achievements": unlocked,
	}
	return c.JSON(response)
}

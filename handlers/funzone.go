// handlers/funzone.go - Spin wheel and quiz mini-games
package handlers

import (
	"math/rand"

	"cohortquest/database"
	"cohortquest/middleware"
	"cohortquest/models"

	"github.com/gofiber/fiber/v2"
)

// wheelSegments are the XP rewards on the spin wheel, 25 to 300.
var wheelSegments = []int{25, 50, 75, 100, 150, 200, 250, 300}

// SpinWheel picks a random wheel segment server-side and grants its XP.
func SpinWheel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	segment := rand.Intn(len(wheelSegments))
	reward := wheelSegments[segment]

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	touchStreak(&user)

	res, unlocked, err := applyXP(tx, &user, reward, models.XPSourceSpinWheel, "Spin wheel reward", nil)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to award spin reward"})
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
		"segment":          segment,
		"xp_earned":        reward,
		"current_xp":       user.XP,
		"new_level":        user.Level,
		"leveled_up":       res.LeveledUp,
		"new_achievements": unlocked,
	})
}

type SubmitQuizRequest struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

// SubmitQuiz records a quiz run. The score is granted as XP and a
// perfect run bumps the perfect-quiz counter read by the quiz-master
// achievement.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.TotalQuestions < 1 || req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quiz result"})
	}
	if req.Score < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Score must be non-negative"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	isPerfect := req.CorrectAnswers == req.TotalQuestions

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	touchStreak(&user)
	user.QuizzesTaken++
	if isPerfect {
		user.PerfectQuizzes++
	}

	result := models.QuizResult{
		UserID:         user.ID,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		IsPerfect:      isPerfect,
		XPEarned:       req.Score,
	}
	if err := tx.Create(&result).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record quiz"})
	}

	res, unlocked, err := applyXP(tx, &user, req.Score, models.XPSourceQuiz, "Quiz completed", nil)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to award quiz XP"})
	}

	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	percentage := req.CorrectAnswers * 100 / req.TotalQuestions

	return c.JSON(fiber.Map{
		"success":          true,
		"xp_earned":        req.Score,
		"is_perfect":       isPerfect,
		"percentage":       percentage,
		"perfect_quizzes":  user.PerfectQuizzes,
		"current_xp":       user.XP,
		"new_level":        user.Level,
		"leveled_up":       res.LeveledUp,
		"new_achievements": unlocked,
	})
}

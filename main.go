package main

import (
	"log"
	"os"
	"time"

	"cohortquest/database"
	"cohortquest/handlers"
	"cohortquest/handlers/admin"
	"cohortquest/middleware"
	"cohortquest/models"
	"cohortquest/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database and progression engine
	database.InitDB()
	handlers.InitProgression()

	// Start streak maintenance
	services.InitStreakService()
	defer func() {
		if s := services.GetStreakService(); s != nil {
			s.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/guest", handlers.GuestLogin)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)
	userGroup.Put("/me", handlers.UpdateCurrentUser)
	userGroup.Get("/search", handlers.SearchUsers)
	userGroup.Get("/:id", handlers.GetUserProfile)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Post("/xp", handlers.AwardXP)
	progressionGroup.Get("/achievements", handlers.GetUserAchievements)
	progressionGroup.Get("/badges", handlers.GetBadges)
	progressionGroup.Get("/badges/next", handlers.GetNextBadge)
	progressionGroup.Get("/history", handlers.GetXPHistory)

	// Mission routes
	missionGroup := api.Group("/missions")
	missionGroup.Use(middleware.AuthMiddleware)
	missionGroup.Get("/", handlers.GetMissions)
	missionGroup.Post("/:id/complete", handlers.CompleteMission)
	missionGroup.Post("/assign",
		middleware.RequireRole(models.RoleMentor, models.RoleFloorwing, models.RoleAdmin),
		handlers.AssignMission)

	// Activity routes
	activityGroup := api.Group("/activities")
	activityGroup.Use(middleware.AuthMiddleware)
	activityGroup.Post("/meeting", handlers.RecordMeeting)
	activityGroup.Post("/challenge", handlers.RecordChallenge)

	// Fun zone routes
	funGroup := api.Group("/funzone")
	funGroup.Use(middleware.AuthMiddleware)
	funGroup.Post("/spin", handlers.SpinWheel)
	funGroup.Post("/quiz", handlers.SubmitQuiz)

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/floors", handlers.GetFloorLeaderboard)
	leaderboardGroup.Get("/user/:id", handlers.GetUserRank)

	// Mentor routes
	mentorGroup := api.Group("/mentor")
	mentorGroup.Use(middleware.AuthMiddleware)
	mentorGroup.Use(middleware.RequireRole(models.RoleMentor, models.RoleFloorwing, models.RoleAdmin))
	mentorGroup.Get("/students", handlers.GetMentorStudents)
	mentorGroup.Post("/xp/award", handlers.MentorAwardXP)
	mentorGroup.Post("/xp/deduct", handlers.MentorDeductXP)

	// Stats routes
	api.Get("/stats", handlers.GetCohortStats)
	api.Get("/stats/online", handlers.GetOnlineCount)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Put("/users/:id", admin.UpdateUser)
	adminProtected.Delete("/users/:id", admin.DeleteUser)
	adminProtected.Post("/users/:id/ban", admin.BanUser)
	adminProtected.Get("/analytics", admin.GetAnalytics)

	// Admin achievement registry management
	adminProtected.Get("/achievements", admin.GetAchievements)
	adminProtected.Post("/achievements", admin.CreateAchievement)
	adminProtected.Put("/achievements/:id", admin.UpdateAchievement)
	adminProtected.Delete("/achievements/:id", admin.DeleteAchievement)

	// Admin mission catalog management
	adminProtected.Get("/missions", admin.GetMissions)
	adminProtected.Post("/missions", admin.CreateMission)
	adminProtected.Put("/missions/:id", admin.UpdateMission)
	adminProtected.Delete("/missions/:id", admin.DeleteMission)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

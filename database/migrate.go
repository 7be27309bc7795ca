// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"cohortquest/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Mission{},
		&models.UserMission{},
		&models.QuizResult{},
		&models.XPEvent{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ Migrations completed")

	createIndexes()

	// Seed the achievement registry on first boot
	if err := SeedAchievements(db); err != nil {
		log.Fatalf("❌ Failed to seed achievements: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes the auto-migration does not cover
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level ON users(level DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_floor_xp ON users(floor, xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_mentor ON users(mentor_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Mission indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_missions_user ON user_missions(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_missions_completed ON user_missions(user_id, completed)")

	// Achievement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")

	// XP ledger indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_xp_events_created ON xp_events(created_at DESC)")

	log.Println("✅ Indexes created successfully")
}

// services/streaks.go - Background streak maintenance
package services

import (
	"log"
	"time"

	"cohortquest/database"
	"cohortquest/models"
)

// StreakService lapses activity streaks for users who went a full day
// without qualifying activity.
type StreakService struct {
	interval time.Duration
	stop     chan struct{}
}

var streakService *StreakService

// InitStreakService initializes and starts the singleton streak
// service.
func InitStreakService() {
	streakService = &StreakService{
		interval: time.Hour,
		stop:     make(chan struct{}),
	}
	go streakService.run()
}

// GetStreakService returns the initialized streak service.
func GetStreakService() *StreakService {
	return streakService
}

func (s *StreakService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.LapseStaleStreaks(); err != nil {
				log.Printf("Streak lapse failed: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Stop shuts down the background worker.
func (s *StreakService) Stop() {
	close(s.stop)
}

// LapseStaleStreaks zeroes the current streak of users whose last
// activity is older than the start of yesterday. Best streaks are
// untouched.
func (s *StreakService) LapseStaleStreaks() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	startOfYesterday := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	result := db.Model(&models.User{}).
		Where("streak > 0 AND (last_activity IS NULL OR last_activity < ?)", startOfYesterday).
		Update("streak", 0)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("✅ Lapsed streaks for %d inactive users", result.RowsAffected)
	}
	return nil
}

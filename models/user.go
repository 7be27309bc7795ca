// models/user.go
package models

import (
	"time"
)

// User roles within a cohort.
const (
	RoleStudent   = "student"
	RoleMentor    = "mentor"
	RoleFloorwing = "floorwing"
	RoleAdmin     = "admin"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	Role        string  `gorm:"default:'student';index" json:"role"` // student, mentor, floorwing, admin
	Floor       string  `gorm:"index" json:"floor"`
	MentorID    *uint   `gorm:"index" json:"mentor_id,omitempty"`
	Mentor      *User   `gorm:"foreignKey:MentorID" json:"-"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`
	IsBanned    bool    `gorm:"default:false" json:"is_banned"`

	// Progression
	XP    int `gorm:"default:0" json:"xp"`
	Level int `gorm:"default:1" json:"level"`

	// Activity counters read by achievement conditions
	Streak              int `gorm:"default:0" json:"streak"`
	BestStreak          int `gorm:"default:0" json:"best_streak"`
	MentorXP            int `gorm:"default:0" json:"mentor_xp"`
	ChallengesCompleted int `gorm:"default:0" json:"challenges_completed"`
	PerfectQuizzes      int `gorm:"default:0" json:"perfect_quizzes"`
	QuizzesTaken        int `gorm:"default:0" json:"quizzes_taken"`
	MeetingsAttended    int `gorm:"default:0" json:"meetings_attended"`

	// Mentor bookkeeping
	TotalXPGiven int     `gorm:"default:0" json:"total_xp_given,omitempty"`
	Rating       float64 `gorm:"default:0" json:"rating,omitempty"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    time.Time  `json:"last_login"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Missions     []UserMission     `gorm:"foreignKey:UserID" json:"missions,omitempty"`
}

// UserAchievement records a single unlocked achievement. Rows are
// append-only: an achievement is never revoked even if its condition
// later stops holding.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_user_achievement,unique" json:"user_id"`
	AchievementID string    `gorm:"not null;index:idx_user_achievement,unique" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID;references:Key" json:"achievement,omitempty"`
}

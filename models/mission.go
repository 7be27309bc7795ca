// models/mission.go - Missions and other trackable activities
package models

import "time"

// Mission is an assignable task worth XP. Type and Difficulty feed the
// XP formula when no explicit XP value is set.
type Mission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"default:'tutorial';size:30" json:"type"` // tutorial, project, challenge, team, presentation
	Difficulty  string    `gorm:"default:'medium';size:20" json:"difficulty"`
	XP          int       `gorm:"default:0" json:"xp"`
	Floor       string    `gorm:"index" json:"floor,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   *uint     `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserMission is a mission assignment for one student.
type UserMission struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_user_mission,unique" json:"user_id"`
	MissionID   uint       `gorm:"not null;index:idx_user_mission,unique" json:"mission_id"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	XPEarned    int        `gorm:"default:0" json:"xp_earned"`
	CreatedAt   time.Time  `json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Mission *Mission `gorm:"foreignKey:MissionID" json:"mission,omitempty"`
}

// QuizResult records one quiz run from the fun zone.
type QuizResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Score          int       `gorm:"default:0" json:"score"`
	CorrectAnswers int       `gorm:"default:0" json:"correct_answers"`
	TotalQuestions int       `gorm:"default:0" json:"total_questions"`
	IsPerfect      bool      `gorm:"default:false" json:"is_perfect"`
	XPEarned       int       `gorm:"default:0" json:"xp_earned"`
	CreatedAt      time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Mission) TableName() string {
	return "missions"
}

func (UserMission) TableName() string {
	return "user_missions"
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

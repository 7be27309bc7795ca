// models/activity.go - XP audit log
package models

import "time"

// XP event sources.
const (
	XPSourceAward       = "award"
	XPSourceMission     = "mission"
	XPSourceQuiz        = "quiz"
	XPSourceSpinWheel   = "spin_wheel"
	XPSourceMentor      = "mentor"
	XPSourceAchievement = "achievement"
	XPSourceStreak      = "streak"
)

// XPEvent is one entry in the append-only XP ledger. Amount is negative
// for mentor deductions.
type XPEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ActorID   *uint     `gorm:"index" json:"actor_id,omitempty"` // mentor/admin who granted it, if any
	Amount    int       `gorm:"not null" json:"amount"`
	Source    string    `gorm:"not null;size:30;index" json:"source"`
	Reason    string    `gorm:"size:255" json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User  *User `gorm:"foreignKey:UserID" json:"-"`
	Actor *User `gorm:"foreignKey:ActorID" json:"-"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}

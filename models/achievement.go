// models/achievement.go
package models

import "time"

// Achievement is a registry row. Key is the stable string identifier
// referenced by UserAchievement rows; ConditionKind plus Threshold
// describe the unlock rule as data so admins can edit the registry
// without a deploy.
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Key         string `gorm:"not null;uniqueIndex" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Icon        string `json:"icon"`
	Tier        string `gorm:"not null;index" json:"tier"` // bronze, silver, gold, platinum

	ConditionKind string `gorm:"not null" json:"condition_kind"`
	Threshold     int    `gorm:"default:0" json:"threshold"`

	XPReward int `gorm:"default:0" json:"xp_reward"`

	SortOrder int `gorm:"default:0;index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// database/seed.go - Achievement registry seeding
package database

import (
	"log"

	"cohortquest/models"
	"cohortquest/progression"

	"gorm.io/gorm"
)

// SeedAchievements inserts the default achievement registry. Existing
// rows are left alone: achievement keys are the persistence key for
// "already earned", so they must stay stable once users hold them.
func SeedAchievements(db *gorm.DB) error {
	for i, def := range progression.DefaultRegistry() {
		var count int64
		if err := db.Model(&models.Achievement{}).Where("key = ?", def.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		row := models.Achievement{
			Key:           def.ID,
			Title:         def.Title,
			Description:   def.Description,
			Icon:          def.Icon,
			Tier:          string(def.Tier),
			ConditionKind: string(def.Condition.Kind),
			Threshold:     def.Condition.Threshold,
			XPReward:      def.XPReward,
			SortOrder:     i,
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
		log.Printf("Seeded achievement %q", def.ID)
	}
	return nil
}

// LoadRegistry reads the achievement registry from the database in
// evaluation order and converts it to definitions for the evaluator.
func LoadRegistry(db *gorm.DB) ([]progression.AchievementDefinition, error) {
	var rows []models.Achievement
	if err := db.Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	defs := make([]progression.AchievementDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, progression.AchievementDefinition{
			ID:          row.Key,
			Title:       row.Title,
			Description: row.Description,
			Icon:        row.Icon,
			XPReward:    row.XPReward,
			Tier:        progression.BadgeTier(row.Tier),
			Condition: progression.Condition{
				Kind:      progression.ConditionKind(row.ConditionKind),
				Threshold: row.Threshold,
			},
		})
	}
	return defs, nil
}

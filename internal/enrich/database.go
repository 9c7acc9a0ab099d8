package enrich

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/toonforge/battlelab/internal/logging"
)

// OpenAndMigrate opens the enrichment database, keeps the schema current via
// AutoMigrate and seeds it from config when empty. The config stays the
// source of truth: reseeding happens only on an empty table.
func OpenAndMigrate(dataSourceName string, characters []CharacterRecord, skills []SkillRecord) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&CharacterRecord{}, &SkillRecord{}); err != nil {
		return nil, err
	}

	seedDefaults(db, characters, skills)
	return db, nil
}

func seedDefaults(db *gorm.DB, characters []CharacterRecord, skills []SkillRecord) {
	var count int64
	db.Model(&CharacterRecord{}).Count(&count)
	if count == 0 && len(characters) > 0 {
		if err := db.Create(&characters).Error; err != nil {
			logging.Error("failed to seed character records", err, nil)
		} else {
			logging.Info("seeded character records", logging.Fields{"count": len(characters)})
		}
	}

	db.Model(&SkillRecord{}).Count(&count)
	if count == 0 && len(skills) > 0 {
		if err := db.Create(&skills).Error; err != nil {
			logging.Error("failed to seed skill records", err, nil)
		} else {
			logging.Info("seeded skill records", logging.Fields{"count": len(skills)})
		}
	}
}

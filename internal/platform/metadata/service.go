package metadata

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue retrieves a value for a given key from the metadata table.
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// If the key doesn't exist, return an empty string, which is a valid default.
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates a value for a given key.
func SetValue(db *gorm.DB, key, value string) error {
	// Use GORM's OnConflict clause for an efficient and atomic "upsert" operation.
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- Specific Helpers for Type Conversion ---

// GetLastLinkRebuild retrieves and parses the last link-registry rebuild time.
// The zero time is returned when no rebuild has been recorded yet.
func GetLastLinkRebuild(db *gorm.DB) (time.Time, error) {
	valueStr, err := GetValue(db, LastLinkRebuildKey)
	if err != nil {
		return time.Time{}, err
	}
	if valueStr == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, valueStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析元数据 '%s' 的值: %w", LastLinkRebuildKey, err)
	}
	return t, nil
}

// SetLastLinkRebuild formats and stores the last link-registry rebuild time.
func SetLastLinkRebuild(db *gorm.DB, t time.Time) error {
	return SetValue(db, LastLinkRebuildKey, t.UTC().Format(time.RFC3339))
}

// SetLastSweep formats and stores the time of the last completed staging sweep.
func SetLastSweep(db *gorm.DB, t time.Time) error {
	return SetValue(db, LastSweepKey, t.UTC().Format(time.RFC3339))
}

package settings

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Setting is a single key-value pair in the settings table.
type Setting struct {
	// Key is the setting name, e.g. "eventbrite.api_token".
	Key string `gorm:"column:setting_key;primaryKey;size:128"`
	// Value is the raw string value.
	Value string `gorm:"column:setting_value;size:1024"`
}

// TableName overrides the gorm table name.
func (Setting) TableName() string {
	return "sync_settings"
}

// Store reads and writes key-value settings backed by the database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a settings store on the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate ensures the settings table exists.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Setting{})
}

// Get returns the value for key, or def when the key is absent.
func (s *Store) Get(key, def string) string {
	var setting Setting
	if err := s.db.First(&setting, "setting_key = ?", key).Error; err != nil {
		// Missing key and lookup failure both degrade to the default;
		// the pass-level credential check catches a dead database anyway.
		return def
	}
	if setting.Value == "" {
		return def
	}
	return setting.Value
}

// Set writes the value for key, creating or replacing the row.
func (s *Store) Set(key, value string) error {
	setting := Setting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
	}).Create(&setting).Error
}

// GetBool interprets "1" and "true" as true, following the legacy flag format.
func (s *Store) GetBool(key string, def bool) bool {
	raw := s.Get(key, "")
	if raw == "" {
		return def
	}
	return raw == "1" || raw == "true"
}

// GetInt returns the value parsed as int, or def when absent or malformed.
func (s *Store) GetInt(key string, def int) int {
	raw := s.Get(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

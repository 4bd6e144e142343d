package models

import "time"

// MigrationRecord is one row of the Flyway schema-history table. The table is
// owned and written by Flyway; this application only reads it for reporting.
type MigrationRecord struct {
	InstalledRank int       `json:"installed_rank" gorm:"primaryKey;column:installed_rank"`
	Version       string    `json:"version"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Script        string    `json:"script"`
	InstalledOn   time.Time `json:"installed_on"`
	Success       bool      `json:"success"`
}

// TableName is Flyway's default history table name.
func (MigrationRecord) TableName() string {
	return "flyway_schema_history"
}

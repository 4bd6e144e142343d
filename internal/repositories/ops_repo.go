package repositories

import (
	"github.com/MIN2MAX-M/student-reg/internal/models"
)

// DBStatus describes the current database connection identity.
type DBStatus struct {
	Database   string `json:"db" gorm:"column:db"`
	User       string `json:"user" gorm:"column:usr"`
	ServerAddr string `json:"server_addr" gorm:"column:server_addr"`
	ServerPort int    `json:"server_port" gorm:"column:server_port"`
	Version    string `json:"version" gorm:"column:version"`
}

// Permissions holds the grant flags of the application role. SchemaCreate is
// expected to be false for a hardened app role.
type Permissions struct {
	CanConnect   bool `json:"can_connect" gorm:"column:can_connect"`
	SchemaUsage  bool `json:"schema_usage" gorm:"column:schema_usage"`
	SchemaCreate bool `json:"schema_create" gorm:"column:schema_create"`
	StudentsCRUD bool `json:"students_crud" gorm:"column:students_crud"`
}

// MigrationCounts summarizes the migration history table.
type MigrationCounts struct {
	Successful int `json:"successful" gorm:"column:successful"`
	Failed     int `json:"failed" gorm:"column:failed"`
	Total      int `json:"total" gorm:"column:total"`
}

// MigrationInfo is the latest applied migration plus history counts.
type MigrationInfo struct {
	Latest *models.MigrationRecord `json:"latest"`
	Counts MigrationCounts         `json:"counts"`
}

// OpsRepository provides read-only operational introspection. Nothing in this
// interface mutates the database.
type OpsRepository interface {
	DBStatus() (*DBStatus, error)
	PermissionsCheck() (*Permissions, error)
	SeedStatus() (int64, error)
	MigrationInfo() (*MigrationInfo, error)
	MigrationRecent(n int) ([]models.MigrationRecord, error)
}

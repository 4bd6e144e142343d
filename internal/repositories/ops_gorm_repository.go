package repositories

import (
	"errors"
	"fmt"

	"github.com/MIN2MAX-M/student-reg/internal/models"

	"gorm.io/gorm"
)

// GORMOpsRepository runs the operational introspection queries through GORM.
// DBStatus and PermissionsCheck use PostgreSQL system functions and only work
// against a PostgreSQL server; the migration and seed queries are portable.
type GORMOpsRepository struct {
	db *gorm.DB
}

// NewGORMOpsRepository creates a new instance of GORMOpsRepository.
func NewGORMOpsRepository(db *gorm.DB) *GORMOpsRepository {
	return &GORMOpsRepository{
		db: db,
	}
}

// DBStatus reports the connection identity and server version.
func (r *GORMOpsRepository) DBStatus() (*DBStatus, error) {
	var status DBStatus
	err := r.db.Raw(`
		SELECT
		  current_database() AS db,
		  current_user AS usr,
		  COALESCE(inet_server_addr()::text, '') AS server_addr,
		  COALESCE(inet_server_port(), 0) AS server_port,
		  version() AS version
	`).Scan(&status).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query db status: %w", err)
	}
	return &status, nil
}

// PermissionsCheck reports the grant flags of the current role on the
// database, the public schema and the students table.
func (r *GORMOpsRepository) PermissionsCheck() (*Permissions, error) {
	var perms Permissions
	err := r.db.Raw(`
		SELECT
		  has_database_privilege(current_user, current_database(), 'CONNECT') AS can_connect,
		  has_schema_privilege(current_user, 'public', 'USAGE') AS schema_usage,
		  has_schema_privilege(current_user, 'public', 'CREATE') AS schema_create,
		  has_table_privilege(current_user, 'public.students', 'SELECT,INSERT,UPDATE,DELETE') AS students_crud
	`).Scan(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	return &perms, nil
}

// SeedStatus counts the rows in the students table.
func (r *GORMOpsRepository) SeedStatus() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Student{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// MigrationInfo returns the most recently applied migration and the
// success/failure counts over the whole history table.
func (r *GORMOpsRepository) MigrationInfo() (*MigrationInfo, error) {
	var latest models.MigrationRecord
	err := r.db.Order("installed_rank DESC").First(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query latest migration: %w", err)
	}

	info := &MigrationInfo{}
	if err == nil {
		info.Latest = &latest
	}

	err = r.db.Raw(`
		SELECT
		  COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS successful,
		  COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failed,
		  COUNT(*) AS total
		FROM flyway_schema_history
	`).Scan(&info.Counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query migration counts: %w", err)
	}
	return info, nil
}

// MigrationRecent returns the n most recently applied migrations, most recent
// first.
func (r *GORMOpsRepository) MigrationRecent(n int) ([]models.MigrationRecord, error) {
	var records []models.MigrationRecord
	err := r.db.Order("installed_rank DESC").Limit(n).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent migrations: %w", err)
	}
	return records, nil
}

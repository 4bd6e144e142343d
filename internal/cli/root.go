// Package cli implements the admin command tree: a students group mirroring
// the HTTP API's CRUD operations and an ops group for read-only database and
// migration introspection.
package cli

import (
	"github.com/MIN2MAX-M/student-reg/internal/config"
	"github.com/MIN2MAX-M/student-reg/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewRootCmd builds the admin command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Admin CLI: safe operational interface (CRUD + ops checks)",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newStudentsCmd())
	rootCmd.AddCommand(newOpsCmd())
	return rootCmd
}

// Execute runs the admin CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// openDB acquires a store handle scoped to a single command invocation. The
// returned cleanup must run on all exit paths.
func openDB() (*gorm.DB, func(), error) {
	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = database.Close(db)
	}
	return db, cleanup, nil
}

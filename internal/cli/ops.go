package cli

import (
	"fmt"
	"strconv"

	"github.com/MIN2MAX-M/student-reg/internal/repositories"

	"github.com/spf13/cobra"
)

func newOpsCmd() *cobra.Command {
	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "Read-only database and migration introspection",
	}

	opsCmd.AddCommand(
		newOpsDBStatusCmd(),
		newOpsPermissionsCheckCmd(),
		newOpsSeedStatusCmd(),
		newOpsMigrationInfoCmd(),
		newOpsMigrationRecentCmd(),
	)
	return opsCmd
}

func newOpsDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-status",
		Short: "Show connection identity and server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := repositories.NewGORMOpsRepository(db).DBStatus()
			if err != nil {
				return err
			}
			renderKV(cmd.OutOrStdout(), "DB Status", []kv{
				{"db", status.Database},
				{"user", status.User},
				{"server_addr", status.ServerAddr},
				{"server_port", strconv.Itoa(status.ServerPort)},
				{"version", status.Version},
			})
			return nil
		},
	}
}

func newOpsPermissionsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions-check",
		Short: "Show grant flags of the application role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			perms, err := repositories.NewGORMOpsRepository(db).PermissionsCheck()
			if err != nil {
				return err
			}
			renderKV(cmd.OutOrStdout(), "Permissions Check", []kv{
				{"can_connect", strconv.FormatBool(perms.CanConnect)},
				{"schema_usage", strconv.FormatBool(perms.SchemaUsage)},
				{"schema_create", strconv.FormatBool(perms.SchemaCreate)},
				{"students_crud", strconv.FormatBool(perms.StudentsCRUD)},
			})

			// A hardened app role must not be able to CREATE in schema public.
			if perms.SchemaCreate {
				return fmt.Errorf("app role can CREATE in schema public (not hardened)")
			}
			return nil
		},
	}
}

func newOpsSeedStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-status",
		Short: "Show row counts of the students table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			count, err := repositories.NewGORMOpsRepository(db).SeedStatus()
			if err != nil {
				return err
			}
			renderKV(cmd.OutOrStdout(), "Seed Status", []kv{
				{"student_count", strconv.FormatInt(count, 10)},
			})
			return nil
		},
	}
}

func newOpsMigrationInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migration-info",
		Short: "Show latest applied migration and history counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			info, err := repositories.NewGORMOpsRepository(db).MigrationInfo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderKV(out, "Migration Counts", []kv{
				{"successful", strconv.Itoa(info.Counts.Successful)},
				{"failed", strconv.Itoa(info.Counts.Failed)},
				{"total", strconv.Itoa(info.Counts.Total)},
			})

			if info.Latest == nil {
				renderKV(out, "Migration Latest", nil)
				return nil
			}
			renderKV(out, "Migration Latest", []kv{
				{"installed_rank", strconv.Itoa(info.Latest.InstalledRank)},
				{"version", info.Latest.Version},
				{"description", info.Latest.Description},
				{"type", info.Latest.Type},
				{"script", info.Latest.Script},
				{"installed_on", info.Latest.InstalledOn.Format(timeLayout)},
				{"success", strconv.FormatBool(info.Latest.Success)},
			})
			return nil
		},
	}
}

func newOpsMigrationRecentCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "migration-recent",
		Short: "Show the most recently applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			records, err := repositories.NewGORMOpsRepository(db).MigrationRecent(n)
			if err != nil {
				return err
			}
			renderMigrationsTable(cmd.OutOrStdout(), fmt.Sprintf("Recent Migrations (n=%d)", n), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 10, "How many recent migrations to show")
	return cmd
}

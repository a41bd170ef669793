package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

const defaultMigrationPath = "migrations"

// SchemaMigrator is the migration surface of postgres.Migrator.
type SchemaMigrator interface {
	Up() error
	Down(steps int) error
	Status() (version uint, dirty bool, err error)
	Force(version int) error
	Close() error
}

func newSchemaMigrator(cc *CLIContext) (SchemaMigrator, error) {
	path := cc.Config.Database.MigrationPath
	if path == "" {
		path = defaultMigrationPath
	}
	return postgres.NewMigrator(postgres.FromConfig(cc.Config.Database), path, cc.Logger)
}

// MigrationStatus is what sdsctl migrate status prints.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s MigrationStatus) String() string {
	if s.Dirty {
		return fmt.Sprintf("version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("version %d", s.Version)
}

func (s MigrationStatus) TableHeaders() []string { return []string{"VERSION", "DIRTY"} }

func (s MigrationStatus) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(s.Version), 10), strconv.FormatBool(s.Dirty)}}
}

// NewMigrateCmd manages the sds_records schema.
func NewMigrateCmd(factory func(*CLIContext) (SchemaMigrator, error)) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	// withMigrator opens a migrator for the duration of one subcommand.
	withMigrator := func(cmd *cobra.Command, fn func(SchemaMigrator) error) error {
		cc, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		m, err := factory(cc)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open migrator")
		}
		defer m.Close()
		return fn(m)
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m SchemaMigrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down <steps>",
		Short: "Roll back the given number of migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.Atoi(args[0])
			if err != nil || steps <= 0 {
				return errors.InvalidParam("steps must be a positive integer").WithDetail(args[0])
			}
			return withMigrator(cmd, func(m SchemaMigrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m SchemaMigrator) error {
				return printStatus(cmd, m)
			})
		},
	}

	forceCmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil || version < 0 {
				return errors.InvalidParam("version must be a non-negative integer").WithDetail(args[0])
			}
			return withMigrator(cmd, func(m SchemaMigrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("forced version %d", version))
				return nil
			})
		},
	}

	// pflag reads "-1" as a shorthand flag, so a negative count surfaces here.
	downCmd.SetFlagErrorFunc(argFlagError("steps must be a positive integer"))
	forceCmd.SetFlagErrorFunc(argFlagError("version must be a non-negative integer"))

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd, forceCmd)
	return migrateCmd
}

func argFlagError(msg string) func(*cobra.Command, error) error {
	return func(_ *cobra.Command, err error) error {
		return errors.InvalidParam(msg).WithDetail(err.Error())
	}
}

func printStatus(cmd *cobra.Command, m SchemaMigrator) error {
	v, dirty, err := m.Status()
	if err != nil {
		return err
	}
	return PrintResult(cmd, MigrationStatus{Version: v, Dirty: dirty})
}

//Personal.AI order the ending

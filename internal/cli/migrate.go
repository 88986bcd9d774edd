package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrations(func(m Migrations) error {
					if err := m.Up(); err != nil {
						return err
					}
					return a.printVersion(cmd, m)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrations(func(m Migrations) error {
					if err := m.Down(); err != nil {
						return err
					}
					return a.printVersion(cmd, m)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withMigrations(func(m Migrations) error {
					return a.printVersion(cmd, m)
				})
			},
		},
	)
	return cmd
}

func (a *app) withMigrations(fn func(m Migrations) error) error {
	m, err := a.deps.OpenMigrations(a.cfg)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			a.logger.Warn("close migrations", zap.Error(err))
		}
	}()
	return fn(m)
}

func (a *app) printVersion(cmd *cobra.Command, m Migrations) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	a.logger.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	if dirty {
		printf(cmd.OutOrStdout(), "version %d (dirty)\n", v)
		return nil
	}
	printf(cmd.OutOrStdout(), "version %d\n", v)
	return nil
}

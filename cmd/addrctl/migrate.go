package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"github.com/zh-address-parser/internal/gazetteer"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate up|down|steps N|version",
		Short:     "Chạy migration cho store SQL",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down", "steps", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := c.cfg.Gazetteer.Driver
			dsn := c.cfg.SQLite.Path
			if driver == gazetteer.DriverPostgres {
				dsn = c.cfg.Postgres.DSN()
			}

			m, err := gazetteer.NewMigrator(driver, dsn)
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			switch args[0] {
			case "up":
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration up failed: %w", err)
				}
				fmt.Fprintln(out, "migrations applied successfully")
			case "down":
				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration down failed: %w", err)
				}
				fmt.Fprintln(out, "migrations reverted successfully")
			case "steps":
				if len(args) < 2 {
					return fmt.Errorf("steps requires a number argument")
				}
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid steps argument: %w", err)
				}
				if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration steps failed: %w", err)
				}
				fmt.Fprintf(out, "applied %d migration steps\n", n)
			case "version":
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(out, "version: none")
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				fmt.Fprintf(out, "version: %d, dirty: %v\n", v, dirty)
			default:
				return fmt.Errorf("unknown command: %s", args[0])
			}
			return nil
		},
	}
	return cmd
}

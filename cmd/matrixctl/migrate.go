package main

import (
	"fmt"
	"text/tabwriter"

	"skills-matrix/internal/database/migration"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they have been applied",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := openContainer(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	out := cmd.OutOrStdout()
	if c.DB == nil {
		color.New(color.FgYellow).Fprintln(out, "memory driver selected, nothing to migrate")
		return nil
	}

	n, err := c.Migrate(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "database is up to date")
		return nil
	}
	color.New(color.FgGreen).Fprintf(out, "applied %d migration(s)\n", n)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := openContainer(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if c.DB == nil {
		return fmt.Errorf("migrate status needs DB_DRIVER=postgres")
	}

	r := migration.Runner{Dir: c.Config.Database.MigrationsDir}
	statuses, err := r.Status(ctx, c.DB.SQLDB())
	if err != nil {
		return err
	}
	printMigrationStatus(cmd, statuses)
	return nil
}

func printMigrationStatus(cmd *cobra.Command, statuses []migration.Status) {
	applied := color.New(color.FgGreen).SprintFunc()
	pending := color.New(color.FgYellow).SprintFunc()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tSTATE\tAPPLIED AT")
	for _, s := range statuses {
		state, at := pending("pending"), "-"
		if s.Applied {
			state, at = applied("applied"), s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
	}
	_ = tw.Flush()
}

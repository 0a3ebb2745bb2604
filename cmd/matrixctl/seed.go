package main

import (
	"skills-matrix/internal/database/seeder"
	"skills-matrix/internal/pkg/principal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo department when no department exists",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := openContainer(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx = principal.WithUsername(ctx, principal.System)
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, c.Matrix); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "seeders finished")
	return nil
}

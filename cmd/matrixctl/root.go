package main

import (
	"context"
	"io"
	"log"
	"time"

	"skills-matrix/internal/app"
	"skills-matrix/internal/config"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "matrixctl",
	Short: "Administer a skills-matrix installation",
	Long: `matrixctl runs maintenance tasks against the database configured through the
same DB_* environment variables the server reads.

Examples:
  matrixctl migrate            # apply pending migrations
  matrixctl migrate status     # list migrations and when they ran
  matrixctl seed               # create the demo department on an empty install
  matrixctl hash-password pw   # print a bcrypt hash for AUTH_PASSWORD_HASH
  matrixctl activity -n 20     # show the latest activity entries`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log storage details")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall command timeout")
}

// openContainer loads database settings only, so JWT and credentials are not
// needed for admin tasks.
func openContainer(ctx context.Context, migrate bool) (*app.Container, error) {
	db, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	db.RunMigrations = db.RunMigrations && migrate

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.Default()
	}
	return app.NewContainer(ctx, config.Config{Database: db}, logger)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"skills-matrix/internal/config"
	"skills-matrix/internal/database"
	"skills-matrix/internal/database/migration"
	dbpostgres "skills-matrix/internal/database/postgres"
	"skills-matrix/internal/repository"
	"skills-matrix/internal/repository/memory"
	"skills-matrix/internal/usecase"
	"skills-matrix/internal/ws"
)

// Container owns storage and the usecases built on it. The HTTP server and
// the admin CLI both start from here.
type Container struct {
	Config config.Config
	Logger *log.Logger

	// DB is nil when the memory driver is selected.
	DB   database.DB
	Repo repository.MatrixRepository
	Hub  *ws.Hub

	Matrix   *usecase.Matrix
	Activity *usecase.Activity
	Export   *usecase.Export
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStorage(ctx); err != nil {
		return nil, err
	}

	c.Hub = ws.NewHub(logger)
	c.Matrix = usecase.NewMatrixUsecase(c.Repo, ws.NewNotifier(c.Hub), logger)
	c.Activity = usecase.NewActivityUsecase(c.Repo)
	c.Export = usecase.NewExportUsecase(c.Matrix)

	return c, nil
}

func (c *Container) openStorage(ctx context.Context) error {
	switch c.Config.Database.Driver {
	case config.DriverMemory:
		c.Logger.Printf("[Storage] using in-memory store, data is lost on exit")
		c.Repo = memory.NewRepository(memory.NewStore())
		return nil
	case config.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Config.Database.Driver)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db
	c.Repo = repository.NewPostgresMatrixRepository(db)

	if c.Config.Database.RunMigrations {
		if _, err := c.Migrate(ctx); err != nil {
			_ = db.Close()
			return err
		}
	}
	return nil
}

// Migrate applies pending migrations. It is a no-op for the memory driver.
func (c *Container) Migrate(ctx context.Context) (int, error) {
	if c.DB == nil {
		return 0, nil
	}

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	r := migration.Runner{Dir: c.Config.Database.MigrationsDir}
	n, err := r.Run(migCtx, c.DB.SQLDB())
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	if n > 0 {
		c.Logger.Printf("[Migration] applied=%d", n)
	}
	return n, nil
}

// Ping reports storage health. The memory store is always up.
func (c *Container) Ping(ctx context.Context) error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Ping(ctx)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

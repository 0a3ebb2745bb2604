package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"skills-matrix/internal/config"
	"skills-matrix/internal/database/seeder"
	"skills-matrix/internal/delivery/http/handler"
	"skills-matrix/internal/delivery/http/middleware"
	"skills-matrix/internal/delivery/http/routes"
	"skills-matrix/internal/infrastructure/cache"
	"skills-matrix/internal/pkg/jwt"
	"skills-matrix/internal/pkg/principal"
	"skills-matrix/internal/usecase"
	"skills-matrix/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles the fiber app on top of an existing container. It does not
// start the websocket hub.
func New(c *Container, authUC *usecase.Auth, jwtSvc jwt.Service) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c, authUC, jwtSvc)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds every dependency of the HTTP server. The returned cleanup
// stops the hub and releases storage and redis.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		revocations usecase.RevocationStore
		redis       *cache.Redis
	)
	if cfg.Redis.Enabled {
		redis = cache.NewRedis(ctx, cfg.Redis, logger)
		revocations = cache.NewTokenRevocations(redis)
	}

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.Issuer)
	authUC := usecase.NewAuthUsecase(cfg.Auth, jwtSvc, revocations, logger)

	if cfg.Database.RunSeeders {
		seedCtx := principal.WithUsername(ctx, principal.System)
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(seedCtx, c.Matrix); err != nil {
			_ = c.Close()
			_ = redis.Close()
			return nil, nil, err
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	a := New(c, authUC, jwtSvc)

	cleanup := func() error {
		stopHub()
		_ = redis.Close()
		return c.Close()
	}
	return a, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container, authUC *usecase.Auth, jwtSvc jwt.Service) {
	if app == nil {
		return
	}

	h := routes.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		Health:      handler.NewHealthHandler(handler.PingFunc(c.Ping), c.Logger),
		Departments: handler.NewDepartmentHandler(c.Matrix, c.Export),
		Employees:   handler.NewEmployeeHandler(c.Matrix),
		Skills:      handler.NewSkillHandler(c.Matrix),
		Activity:    handler.NewActivityHandler(c.Activity),
		WS:          ws.NewHandler(c.Hub, c.Logger).HandleDepartmentsWS,
	}
	routes.NewRegistry(h, middleware.NewAuthMiddleware(jwtSvc, authUC)).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

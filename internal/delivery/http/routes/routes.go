package routes

import (
	"skills-matrix/internal/delivery/http/handler"
	"skills-matrix/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api. Nil handlers are skipped.
type Handlers struct {
	Auth        *handler.AuthHandler
	Health      *handler.HealthHandler
	Departments *handler.DepartmentHandler
	Employees   *handler.EmployeeHandler
	Skills      *handler.SkillHandler
	Activity    *handler.ActivityHandler
	WS          fiber.Handler
}

type Registry struct {
	handlers Handlers
	auth     *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{handlers: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	api := app.Group("/api")
	r.registerPublic(api)
	r.registerProtected(api)
}

func (r *Registry) registerPublic(api fiber.Router) {
	if r.handlers.Auth != nil {
		r.handlers.Auth.RegisterRoutes(api)
	}
}

func (r *Registry) registerProtected(api fiber.Router) {
	if r.handlers.WS != nil {
		api.Get("/ws", r.auth.QueryTokenMiddleware(), r.handlers.WS)
	}

	protected := api.Group("", r.auth.Middleware())

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(protected)
	}
	if r.handlers.Departments != nil {
		r.handlers.Departments.RegisterRoutes(protected)
	}
	if r.handlers.Employees != nil {
		r.handlers.Employees.RegisterRoutes(protected)
	}
	if r.handlers.Skills != nil {
		r.handlers.Skills.RegisterRoutes(protected)
	}
	if r.handlers.Activity != nil {
		r.handlers.Activity.RegisterRoutes(protected)
	}
}

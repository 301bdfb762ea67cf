package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/api/http/handlers"
	"github.com/spec-kit/approval-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Profiles       *handlers.ProfilesHandler
	Tickets        *handlers.TicketsHandler
	TicketTypes    *handlers.TicketTypesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Profiles.Register)
	authGroup.Post("/login", cfg.Profiles.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Profiles.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/approve", cfg.Tickets.Approve)
	tickets.Post("/:id/return", cfg.Tickets.Return)
	tickets.Post("/:id/reject", cfg.Tickets.Reject)
	tickets.Post("/:id/cancel", cfg.Tickets.Cancel)
	tickets.Post("/:id/resubmit", cfg.Tickets.Resubmit)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)

	protected.Get("/ticket-types", cfg.TicketTypes.ListTypes)
	protected.Get("/ticket-types/:id", cfg.TicketTypes.GetType)
	protected.Get("/dropdown-lists/:id/options", cfg.Admin.DropdownOptions)

	admin := protected.Group("/admin", auth.RequireAdmin())

	admin.Post("/ticket-types", cfg.TicketTypes.CreateType)
	admin.Put("/ticket-types/:id", cfg.TicketTypes.UpdateType)
	admin.Delete("/ticket-types/:id", cfg.TicketTypes.DeleteType)
	admin.Delete("/ticket-types/:id/fields/:name", cfg.TicketTypes.DeleteField)
	admin.Post("/ticket-types/:id/fields/:name/deprecate", cfg.TicketTypes.DeprecateField)

	admin.Post("/companies", cfg.Admin.CreateCompany)
	admin.Get("/companies", cfg.Admin.ListCompanies)
	admin.Put("/companies/:id", cfg.Admin.UpdateCompany)
	admin.Delete("/companies/:id", cfg.Admin.DeleteCompany)

	admin.Post("/roles", cfg.Admin.CreateRole)
	admin.Get("/roles", cfg.Admin.ListRoles)
	admin.Put("/roles/:id", cfg.Admin.UpdateRole)
	admin.Delete("/roles/:id", cfg.Admin.DeleteRole)

	admin.Post("/dropdown-lists", cfg.Admin.CreateDropdownList)
	admin.Get("/dropdown-lists", cfg.Admin.ListDropdownLists)
	admin.Put("/dropdown-lists/:id", cfg.Admin.UpdateDropdownList)
	admin.Delete("/dropdown-lists/:id", cfg.Admin.DeleteDropdownList)

	admin.Get("/profiles", cfg.Profiles.ListProfiles)
	admin.Patch("/profiles/:uid/enabled", cfg.Profiles.SetEnabled)
	admin.Patch("/profiles/:uid/role", cfg.Profiles.AssignRole)
}

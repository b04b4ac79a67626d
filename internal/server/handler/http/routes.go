package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/nmcalabroso/fintrack/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the finance tracking
// API.
//
// Public routes:
//
//	POST /token      → authHandler.Token (login)
//	GET  /items/     → itemHandler.List
//	POST /items/     → itemHandler.Create (registration)
//
// Bearer-protected routes:
//
//	GET  /users/profile            → authHandler.Profile
//	GET  /admin/dashboard          → authHandler.AdminDashboard (admin only)
//	     /gastos, /gastos/{id}     → expense CRUD
//	     /inversiones, .../{id}    → investment CRUD
//	GET  /analisis/*               → analytics
func NewRouter(
	authHandler *AuthHandler,
	itemHandler *ItemHandler,
	expenseHandler *ExpenseHandler,
	investmentHandler *InvestmentHandler,
	analyticsHandler *AnalyticsHandler,
	authenticator middleware.Authenticator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Post("/token", authHandler.Token)
	r.Route("/items", func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
	})

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(authenticator))

		r.Get("/users/profile", authHandler.Profile)
		r.Get("/admin/dashboard", authHandler.AdminDashboard)

		r.Route("/gastos", func(r chi.Router) {
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)
			r.Get("/{id}", expenseHandler.Get)
			r.Put("/{id}", expenseHandler.Update)
			r.Delete("/{id}", expenseHandler.Delete)
		})

		r.Route("/inversiones", func(r chi.Router) {
			r.Get("/", investmentHandler.List)
			r.Post("/", investmentHandler.Create)
			r.Get("/{id}", investmentHandler.Get)
			r.Put("/{id}", investmentHandler.Update)
			r.Delete("/{id}", investmentHandler.Delete)
		})

		r.Route("/analisis", func(r chi.Router) {
			r.Get("/resumen-general", analyticsHandler.ResumenGeneral)
			r.Get("/resumen-mensual", analyticsHandler.ResumenMensual)
			r.Get("/gastos-por-tipo", analyticsHandler.GastosPorTipo)
			r.Get("/inversiones-por-tipo", analyticsHandler.InversionesPorTipo)
			r.Get("/tendencia-mensual", analyticsHandler.TendenciaMensual)
		})
	})

	return r
}

package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"summitreg/internal/handlers"
	"summitreg/internal/middleware"
)

// New builds the full route table: the public registration surface, the
// JWT-protected admin API and the key-protected partner API.
func New() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(handlers.Log))
	r.Use(middleware.CORS)
	r.Use(middleware.Logger(handlers.Log))

	// Public surface
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/meta", handlers.FormMeta)
	r.Get("/categories", handlers.ListCategories)
	r.Get("/partners", handlers.ListPartners)
	r.Get("/calendar.ics", handlers.Calendar)
	r.Post("/register", handlers.Register)
	r.Post("/exhibitors", handlers.RegisterExhibitor)
	r.Get("/unsubscribe/{token}", handlers.Unsubscribe)
	r.Post("/auth/login", handlers.Login)

	// Admin dashboard
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(handlers.Tokens, handlers.Log))

		r.Get("/dashboard/stats", handlers.DashboardStats)
		r.Get("/registrants", handlers.ListRegistrants)
		r.Get("/registrants/{id}", handlers.GetRegistrant)
		r.Delete("/registrants/{id}", handlers.DeleteRegistrant)
		r.Get("/registrants/{id}/badge", handlers.DownloadBadge)
		r.Get("/exhibitors", handlers.ListExhibitors)
		r.Get("/exhibitors/{id}/badge", handlers.DownloadExhibitorBadge)

		r.Post("/categories", handlers.CreateCategory)
		r.Put("/categories/{id}", handlers.UpdateCategory)
		r.Delete("/categories/{id}", handlers.DeleteCategory)

		r.Get("/export/csv", handlers.ExportCSV)
		r.Get("/export/xlsx", handlers.ExportXLSX)
		r.Get("/export/pdf", handlers.ExportPDF)

		r.Post("/jobs/badges", handlers.StartBadgeJob)
		r.Get("/jobs/badges/{id}", handlers.BadgeJobStatus)

		r.Post("/mail/send", handlers.SendBulkMail)
		r.Post("/mail/resend/{id}", handlers.ResendMail)
		r.Post("/mail/resend-failed", handlers.ResendFailedMail)
		r.Get("/mail/logs", handlers.ListEmailLogs)

		r.Post("/import/registrants", handlers.ImportRegistrants)
	})

	// Partner read API
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(handlers.Cfg.PartnerKey, handlers.Log))
		r.Get("/api/v1/registrants", handlers.PartnerRegistrants)
	})

	return r
}

package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/smkhize/claims-management/internal/auth"
	"github.com/smkhize/claims-management/internal/claim"
	"github.com/smkhize/claims-management/internal/document"
	"github.com/smkhize/claims-management/internal/notification"
	"github.com/smkhize/claims-management/internal/report"
	"github.com/smkhize/claims-management/internal/transport/middleware"
	"github.com/smkhize/claims-management/internal/transport/swagger"
	"github.com/smkhize/claims-management/internal/user"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	Claim        *claim.Handler
	Document     *document.Handler
	Report       *report.Handler
	Notification *notification.Handler
}

// RegisterAllRoutes wires the full API under /api/v1. db may be nil when the
// service runs on the in-memory backend.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Post("/register", h.User.Register)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.CurrentUser)

			pr.Route("/claims", func(cr chi.Router) {
				cr.Post("/", h.Claim.CreateClaim)
				cr.Get("/my", h.Claim.MyClaims)
				cr.Get("/{id}", h.Claim.ClaimDetails)

				cr.Post("/{id}/documents", h.Document.Upload)
				cr.Get("/{id}/documents", h.Document.ListForClaim)

				// Review routes for coordinators and managers
				cr.Group(func(rr chi.Router) {
					rr.Use(h.RBAC.RequireReviewer())
					rr.Get("/pending", h.Claim.PendingClaims)
					rr.Post("/{id}/approve", h.Claim.Approve)
					rr.Post("/{id}/reject", h.Claim.Reject)
				})

				cr.Group(func(rr chi.Router) {
					rr.Use(h.RBAC.RequireReporting())
					rr.Get("/", h.Claim.AllClaims)
				})
			})

			pr.Route("/documents", func(dr chi.Router) {
				dr.Get("/{id}/download", h.Document.Download)
				dr.Delete("/{id}", h.Document.Delete)
			})

			// Payment routes are HR only
			pr.Route("/payments", func(pmr chi.Router) {
				pmr.Use(h.RBAC.RequireHR())
				pmr.Get("/queue", h.Claim.PaymentQueue)
				pmr.Post("/bulk", h.Claim.ProcessBulkPayments)
				pmr.Post("/{id}", h.Claim.ProcessPayment)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Use(h.RBAC.RequireReporting())
				rr.Get("/monthly", h.Report.Monthly)
				rr.Get("/dashboard", h.Report.Overview)
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.List)
				nr.Post("/{id}/read", h.Notification.MarkRead)
			})
		})
	})
}

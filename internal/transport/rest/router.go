package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/area"
	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/internal/candidate"
	"github.com/constituency-office/citizen-portal/internal/news"
	"github.com/constituency-office/citizen-portal/internal/notification"
	"github.com/constituency-office/citizen-portal/internal/request"
	"github.com/constituency-office/citizen-portal/internal/transport/middleware"
	"github.com/constituency-office/citizen-portal/internal/transport/swagger"
	"github.com/constituency-office/citizen-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Request      *request.Handler
	News         *news.Handler
	Notification *notification.Handler
	Area         *area.Handler
	Candidate    *candidate.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	if cfg.Observability.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	if cfg.Observability.Metrics.Enabled {
		router.Handle(cfg.Observability.Metrics.Path, middleware.MetricsHandler())
	}

	loginLimiter := middleware.RateLimit(
		cfg.Security.LoginRatePerMinute,
		cfg.Security.LoginRateBurst,
	)

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Group(func(lr chi.Router) {
				lr.Use(loginLimiter)
				lr.Post("/register", h.Auth.Register)
				lr.Post("/login", h.Auth.Login)
				lr.Post("/forgot-password", h.Auth.ForgotPassword)
				lr.Post("/reset-password", h.Auth.ResetPassword)
			})
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
			sr.Get("/google", h.Auth.GoogleLogin)
			sr.Get("/google/callback", h.Auth.GoogleCallback)
		})

		// Public lookups, no auth required
		r.Get("/areas", h.Area.GetAreas)
		r.Get("/request-types", h.Area.GetRequestTypes)

		// Public news feed and candidate biography
		r.Get("/news", h.News.ListPublic)
		r.Get("/news/{id}", h.News.GetByID)
		r.Get("/candidate", h.Candidate.GetProfile)
		r.Get("/candidate/achievements", h.Candidate.ListAchievements)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			pr.Get("/users/me", h.User.Me)
			pr.Patch("/users/me", h.User.UpdateMe)

			// Request tracking by reference number
			pr.Get("/track/{reference}", h.Request.TrackByReference)

			// Notifications
			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListMine)
				nr.Get("/unread", h.Notification.UnreadCount)
				nr.Patch("/{id}/read", h.Notification.MarkRead)
				nr.Patch("/read-all", h.Notification.MarkAllRead)
			})

			// Request routes
			pr.Route("/requests", func(rr chi.Router) {
				// Citizen routes
				rr.Post("/", h.Request.Create)
				rr.Get("/", h.Request.ListMine)
				rr.Get("/{id}", h.Request.GetByID)
				rr.Patch("/{id}", h.Request.Edit)
				rr.Post("/{id}/cancel", h.Request.Cancel)
				rr.Post("/{id}/replies", h.Request.AddReply)
				rr.Get("/{id}/replies", h.Request.ListReplies)
				rr.Get("/{id}/attachments", h.Request.ListAttachments)
				rr.Delete("/{id}/attachments/{attachmentID}", h.Request.DeleteAttachment)

				// Staff-tier queue and status management
				rr.Group(func(sr chi.Router) {
					sr.Use(middleware.RequireCapability(auth.CapManageRequests))
					sr.Get("/queue", h.Request.ListQueue)
					sr.Patch("/{id}/status", h.Request.UpdateStatus)
				})

				// Priority and assignment are candidate/admin only
				rr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireCapability(auth.CapManagePriority))
					mr.Patch("/{id}/priority", h.Request.UpdatePriority)
				})
				rr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequireCapability(auth.CapManageAssignment))
					mr.Patch("/{id}/assignee", h.Request.Assign)
				})
			})

			// Analytics
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireCapability(auth.CapViewAnalytics))
				ar.Get("/stats/requests", h.Request.GetStats)
			})

			// News management
			pr.Group(func(nr chi.Router) {
				nr.Use(middleware.RequireCapability(auth.CapManageNews))
				nr.Get("/news-admin", h.News.ListAll)
				nr.Post("/news", h.News.Create)
				nr.Patch("/news/{id}", h.News.Update)
				nr.Delete("/news/{id}", h.News.Delete)
			})

			// Candidate content management
			pr.Group(func(cr chi.Router) {
				cr.Use(middleware.RequireCapability(auth.CapManageCandidateContent))
				cr.Put("/candidate", h.Candidate.UpsertProfile)
				cr.Post("/candidate/achievements", h.Candidate.CreateAchievement)
				cr.Patch("/candidate/achievements/{id}", h.Candidate.UpdateAchievement)
				cr.Delete("/candidate/achievements/{id}", h.Candidate.DeleteAchievement)
			})

			// Team management
			pr.Route("/team", func(tr chi.Router) {
				tr.Group(func(er chi.Router) {
					er.Use(middleware.RequireCapability(auth.CapEditMemberProfile))
					er.Patch("/{id}/job-title", h.User.UpdateMemberJobTitle)
				})
				tr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireCapability(auth.CapManageTeam))
					ar.Get("/", h.User.ListTeam)
					ar.Patch("/{id}/role", h.User.ChangeRole)
					ar.Patch("/{id}/active", h.User.SetMemberActive)
				})
			})
		})
	})
}

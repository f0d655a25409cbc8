package routes

import (
	"net/http"

	"zonewatch/internal/config"
	"zonewatch/internal/handlers"
	"zonewatch/internal/logger"
	mdlwr "zonewatch/internal/middleware"
	"zonewatch/internal/observability"
	"zonewatch/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services are the long-lived dependencies the handlers serve from.
type Services struct {
	Auth    *services.AuthService
	Tracker *services.TrackerService
	Zones   *services.ZoneService
	Metrics *observability.Collector
}

func NewRouter(cfg *config.Config, logr *logger.Logger, svc Services) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if svc.Metrics != nil {
		r.Use(svc.Metrics.Middleware)
	}

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMW := mdlwr.NewAuthMiddleware(svc.Auth, logr.Logger)

	authHandler := handlers.NewAuthHandler(svc.Auth, logr, cfg)
	dashboardHandler := handlers.NewDashboardHandler(svc.Tracker, logr.Logger)
	travellerHandler := handlers.NewTravellerHandler(svc.Tracker, logr.Logger)
	zoneHandler := handlers.NewZoneHandler(svc.Zones, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svc.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.LoginLocal)
			r.Post("/ldap", authHandler.LoginLDAP)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMW.JWTAuth)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.GetDashboard)
				r.Post("/refresh", dashboardHandler.Refresh)
				r.Get("/summary", dashboardHandler.GetSummary)
				r.Get("/distribution/zones", dashboardHandler.GetZoneDistribution)
				r.Get("/distribution/status", dashboardHandler.GetStatusDistribution)
				r.Get("/markers", dashboardHandler.GetMarkers)
			})

			r.Route("/travellers", func(r chi.Router) {
				r.Get("/", travellerHandler.ListTravellers)
				r.Get("/{id}", travellerHandler.GetTraveller)
			})

			r.Route("/zones", func(r chi.Router) {
				r.Get("/", zoneHandler.ListZones)
				r.Get("/classify", zoneHandler.Classify)
			})
		})
	})

	return r
}

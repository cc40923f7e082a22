// Package api serves the habit endpoints over HTTP.
package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/habitify/internal/catalog"
	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/habits"
	"github.com/julianstephens/habitify/internal/middleware"
	"github.com/julianstephens/habitify/internal/rollover"
	"github.com/julianstephens/habitify/internal/storage"
)

// Options configures the router's cross-cutting behaviour
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per minute per client IP; 0 disables limiting
	RateLimit int
	// OperatorToken, when set, must be sent in X-Operator-Token to trigger a rollover
	OperatorToken string
}

// Handler holds the services the endpoints call into
type Handler struct {
	store   storage.Provider
	habits  *habits.Service
	catalog *catalog.Service
	engine  *rollover.Engine
}

func NewHandler(store storage.Provider, habitSvc *habits.Service, cat *catalog.Service, engine *rollover.Engine) *Handler {
	return &Handler{store: store, habits: habitSvc, catalog: cat, engine: engine}
}

// NewRouter wires the routes and middleware
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", constants.OperatorTokenHeader},
		MaxAge:         86400,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/habits", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Post("/update_status", h.UpdateStatus)
		r.Post("/create", h.Create)
		r.Post("/delete", h.Delete)
		r.Post("/update", h.Update)
		r.Get("/get_habits", h.GetHabits)
		r.Get("/get_statistics", h.GetStatistics)
		r.Post("/save_custom", h.SaveCustom)
		r.Post("/add_custom_to_habits", h.AddCustomToHabits)

		r.Group(func(r chi.Router) {
			r.Use(requireOperator(opts.OperatorToken))
			r.Post("/reset_daily", h.ResetDaily)
			r.Get("/manual_reset", h.ManualReset)
			r.Post("/manual_reset", h.ManualReset)
		})
	})

	return r
}

// requireOperator guards the rollover triggers. An empty token leaves them open.
func requireOperator(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(constants.OperatorTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				respondJSON(w, http.StatusUnauthorized, &Response{Success: false, Message: "Invalid operator token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

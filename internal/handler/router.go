package handler

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
)

//go:embed static
var staticFiles embed.FS

// Routes bundles what the router serves. Board and Metrics are optional.
type Routes struct {
	Activities *ActivityHandler
	Board      *BoardHandler
	Metrics    http.Handler
	Logger     *slog.Logger
}

// NewRouter builds the chi router for the API, the board and the static
// assets.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(rt.Logger))       // structured access log

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	// Health
	r.Get("/health", HealthCheck)

	if rt.Metrics != nil {
		r.Handle("/metrics", rt.Metrics)
	}

	// API routes
	r.Route("/activities", func(r chi.Router) {
		r.Use(CORS)
		r.Get("/", rt.Activities.ListActivities)
		r.Post("/{name}/signup", rt.Activities.Signup)
		r.Delete("/{name}/unregister", rt.Activities.Unregister)
	})

	// Board pages
	if rt.Board != nil {
		r.Get("/", rt.Board.Index)
		r.Post(board.SignupPath, rt.Board.Signup)
		r.Post(board.UnregisterPath, rt.Board.Unregister)
	}

	r.Handle("/static/*", http.FileServer(http.FS(staticFiles)))

	return r
}

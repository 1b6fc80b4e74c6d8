package http

import (
	"net/http"

	"github.com/atinyakov/ProjectTracker/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the project
// tracker API. It applies JSON content-type enforcement and request
// logging, and mounts the auth endpoints publicly and the project and task
// endpoints behind bearer-token authentication.
//
// Routes:
//
//	POST /api/auth/register                          → authHandler.Register
//	POST /api/auth/login                             → authHandler.Login
//	GET|POST /api/projects                           → projectHandler (protected)
//	GET|PUT|DELETE /api/projects/{projectID}         → projectHandler (protected)
//	GET|POST /api/projects/{projectID}/tasks         → taskHandler (protected)
//	PUT|DELETE /api/projects/{projectID}/tasks/{taskID} → taskHandler (protected)
func NewRouter(
	authHandler *AuthHandler,
	projectHandler *ProjectHandler,
	taskHandler *TaskHandler,
	tokens middleware.SubjectExtractor,
	accounts middleware.AccountResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens, accounts))

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Put("/", projectHandler.Update)
					r.Delete("/", projectHandler.Delete)

					r.Route("/tasks", func(r chi.Router) {
						r.Get("/", taskHandler.List)
						r.Post("/", taskHandler.Create)
						r.Put("/{taskID}", taskHandler.Update)
						r.Delete("/{taskID}", taskHandler.Delete)
					})
				})
			})
		})
	})

	return r
}

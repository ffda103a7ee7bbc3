package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"projecthub/internal/delivery/http/controllers"
	"projecthub/internal/delivery/http/middleware"
	"projecthub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Event routes live under /api/v1, require a bearer token, and are guarded
// by the role-permission matrix on the events resource.
func NewRouter(eventController *controllers.EventController, verifier domain.TokenVerifier, matrix domain.PermissionMatrix, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	canRead := middleware.RequirePermission(matrix, domain.ResourceEvents, domain.PermissionRead)
	canWrite := middleware.RequirePermission(matrix, domain.ResourceEvents, domain.PermissionWrite)

	// Events
	mux.HandleFunc("GET /api/v1/events", auth(canRead(eventController.ListEvents)))
	mux.HandleFunc("POST /api/v1/events", auth(canWrite(eventController.CreateEvent)))
	mux.HandleFunc("GET /api/v1/events/{eventID}", auth(canRead(eventController.GetEventByID)))
	mux.HandleFunc("PATCH /api/v1/events/{eventID}", auth(canWrite(eventController.UpdateEvent)))
	mux.HandleFunc("DELETE /api/v1/events/{eventID}", auth(canWrite(eventController.DeleteEvent)))

	// Associations
	mux.HandleFunc("GET /api/v1/events/{eventID}/association", auth(canRead(eventController.GetEventAssociation)))
	mux.HandleFunc("PUT /api/v1/events/{eventID}/association", auth(canWrite(eventController.UpdateEventAssociation)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

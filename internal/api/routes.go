package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/rmcgill/roomstage/internal/api/handlers"
	"github.com/rmcgill/roomstage/internal/design"
	"github.com/rmcgill/roomstage/internal/repository"
	"github.com/rmcgill/roomstage/internal/storage"
	"github.com/rmcgill/roomstage/internal/style"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *chi.Mux, api huma.API, s3Service storage.S3Service, designRepo repository.DesignRepository, sessionSvc design.SessionService, styles *style.Resolver) {
	designHandler := handlers.NewDesignHandler(designRepo, s3Service, sessionSvc, styles)

	huma.Register(api, huma.Operation{
		OperationID: "createDesign",
		Method:      http.MethodPost,
		Path:        "/api/designs",
		Summary:     "Create a new design",
		Description: "Creates a new design record and returns an upload URL for the room photo",
		Tags:        []string{"Design"},
	}, designHandler.CreateDesign)

	huma.Register(api, huma.Operation{
		OperationID: "startGeneration",
		Method:      http.MethodPost,
		Path:        "/api/designs/{id}/generate",
		Summary:     "Start layout generation",
		Description: "Starts generating a furniture layout for an uploaded room photo",
		Tags:        []string{"Design"},
	}, designHandler.StartGeneration)

	huma.Register(api, huma.Operation{
		OperationID: "getDesignStatus",
		Method:      http.MethodGet,
		Path:        "/api/designs/{id}/status",
		Summary:     "Get design status",
		Description: "Returns the current status and progress of a design",
		Tags:        []string{"Design"},
	}, designHandler.GetDesignStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getDesignLayout",
		Method:      http.MethodGet,
		Path:        "/api/designs/{id}/layout",
		Summary:     "Get generated layout",
		Description: "Returns the generated furniture layout and analyzed room geometry",
		Tags:        []string{"Design"},
	}, designHandler.GetDesignLayout)

	huma.Register(api, huma.Operation{
		OperationID: "listDesigns",
		Method:      http.MethodGet,
		Path:        "/api/designs",
		Summary:     "List a session's designs",
		Description: "Returns all designs created by a client session, newest first",
		Tags:        []string{"Design"},
	}, designHandler.ListDesigns)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	profilehandler "github.com/makialabs/makia-oracle/backend/internal/handler/profile"
	tutorhandler "github.com/makialabs/makia-oracle/backend/internal/handler/tutor"
	middlewarePkg "github.com/makialabs/makia-oracle/backend/internal/middleware"
	profilemodel "github.com/makialabs/makia-oracle/backend/internal/model/profile"
	tutorservice "github.com/makialabs/makia-oracle/backend/internal/service/tutor"
	"github.com/makialabs/makia-oracle/backend/pkg/utils"
)

// Options carries the wiring the router needs beyond its services.
type Options struct {
	MaxUploadBytes int64
	AudioDir       string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(profiles profilemodel.Store, pipeline *tutorservice.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	profileHandler := profilehandler.New(profiles)
	turnHandler := tutorhandler.New(pipeline, opts.MaxUploadBytes)
	wsHandler := tutorhandler.NewWebSocketHandler(pipeline, opts.MaxUploadBytes)

	r.Route("/api", func(api chi.Router) {
		profileHandler.RegisterRoutes(api)
		turnHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
	})

	// Synthesized reply audio is served straight from the artifact dir.
	audioServer := http.StripPrefix("/audio/", http.FileServer(http.Dir(opts.AudioDir)))
	r.Get("/audio/*", audioServer.ServeHTTP)

	return r
}

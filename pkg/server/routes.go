package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/app"
	"github.com/sevphysionet/sectioner/pkg/auth"
)

var log = internal.GetLogger()

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *app.AppState) (*http.Server, error) {
	router, err := setupRouter(appState)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			appState.Config.Server.Host,
			appState.Config.Server.Port,
		),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}, nil
}

func setupRouter(appState *app.AppState) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		verifier, err := auth.JWTVerifier(appState.Config)
		if err != nil {
			return nil, err
		}
		router.Use(verifier)
		router.Use(jwtauth.Authenticator)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sections", func(r chi.Router) {
			r.Post("/", SectionDocumentHandler(appState))
			r.Post("/batch", SectionBatchHandler(appState))
			r.Get("/{documentId}", GetSectionsHandler(appState))
		})
		r.Get("/lexicon", GetLexiconHandler(appState))
	})

	return router, nil
}

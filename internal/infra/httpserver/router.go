package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/domain/export"
	"github.com/satriahrh/convoport/internal/middleware"
)

// Router serves a read-only browser over previously exported artifacts:
// a JSON listing backed by the export index and the raw files themselves.
type Router struct {
	index     export.Index
	exportDir string
}

func NewRouter(index export.Index, exportDir string, log *zap.Logger) http.Handler {
	r := &Router{index: index, exportDir: exportDir}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/artifacts", r.wrap(r.handleList))
	mux.Handle("/files/*", http.StripPrefix("/files/", r.fileServer()))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /artifacts?limit=100
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	artifacts, err := r.index.List(req.Context(), limit)
	if err != nil {
		return err
	}
	if artifacts == nil {
		artifacts = []*export.Artifact{}
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(artifacts)
}

// fileServer exposes the export directory so the HTML transcripts can be
// opened in a browser without copying them off the machine.
func (r *Router) fileServer() http.Handler {
	return http.FileServer(http.Dir(r.exportDir))
}

package api

import (
	"github.com/gorilla/mux"

	"github.com/promptlab/promptlab/internal/api/recovery"
	"github.com/promptlab/promptlab/internal/metrics"
	"github.com/promptlab/promptlab/internal/services"
)

// RouterConfig wires the HTTP adapter to its collaborators.
type RouterConfig struct {
	Deps services.Deps
	// Health reports service health for GET /health. Nil means always healthy.
	Health       HealthSource
	MaxBodyBytes int64
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg RouterConfig) *mux.Router {
	log := cfg.Deps.Log
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware(log))
	router.Use(limitBody(cfg.MaxBodyBytes))

	prompts := NewPromptHandler(services.NewPromptService(cfg.Deps), log)
	collections := NewCollectionHandler(services.NewCollectionService(cfg.Deps), log)
	tags := NewTagHandler(services.NewTagService(cfg.Deps), log)
	versions := NewVersionHandler(services.NewVersionService(cfg.Deps), log)
	health := NewHealthHandler(cfg.Health)

	router.HandleFunc("/health", health.CheckHealth).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Prompts
	router.HandleFunc("/prompts", prompts.ListPrompts).Methods("GET")
	router.HandleFunc("/prompts", prompts.CreatePrompt).Methods("POST")
	router.HandleFunc("/prompts/{id}", prompts.GetPrompt).Methods("GET")
	router.HandleFunc("/prompts/{id}", prompts.ReplacePrompt).Methods("PUT")
	router.HandleFunc("/prompts/{id}", prompts.PatchPrompt).Methods("PATCH")
	router.HandleFunc("/prompts/{id}", prompts.DeletePrompt).Methods("DELETE")
	router.HandleFunc("/prompts/{id}/render", prompts.RenderPrompt).Methods("POST")

	// Versions
	router.HandleFunc("/prompts/{id}/versions", versions.ListVersions).Methods("GET")
	router.HandleFunc("/prompts/{id}/versions", versions.RecordVersion).Methods("POST")
	router.HandleFunc("/prompts/{id}/versions/{versionId}/revert", versions.RevertVersion).Methods("POST")

	// Tag assignments
	router.HandleFunc("/prompts/{id}/tags", tags.ListPromptTags).Methods("GET")
	router.HandleFunc("/prompts/{id}/tags", tags.AssignTag).Methods("POST")
	router.HandleFunc("/prompts/{id}/tags/{tagId}", tags.UnassignTag).Methods("DELETE")

	// Collections
	router.HandleFunc("/collections", collections.ListCollections).Methods("GET")
	router.HandleFunc("/collections", collections.CreateCollection).Methods("POST")
	router.HandleFunc("/collections/{id}", collections.GetCollection).Methods("GET")
	router.HandleFunc("/collections/{id}", collections.DeleteCollection).Methods("DELETE")

	// Tags
	router.HandleFunc("/tags", tags.ListTags).Methods("GET")
	router.HandleFunc("/tags", tags.CreateTag).Methods("POST")
	router.HandleFunc("/tags/{id}", tags.GetTag).Methods("GET")
	router.HandleFunc("/tags/{id}", tags.RenameTag).Methods("PUT")
	router.HandleFunc("/tags/{id}", tags.DeleteTag).Methods("DELETE")

	return router
}

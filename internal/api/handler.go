package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/cache"
	"github.com/knapcmp/knapcmp/internal/compare"
	"github.com/knapcmp/knapcmp/internal/config"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/models"
	"github.com/knapcmp/knapcmp/internal/repo"
)

// Handler handles HTTP requests
type Handler struct {
	repo      *repo.Repository
	cache     *cache.Cache
	runner    *compare.Runner
	limiter   rateLimiter
	startTime time.Time
}

// NewHandler creates a new API handler
func NewHandler(repository *repo.Repository, cacheInstance *cache.Cache, limits config.RateLimitConfig) *Handler {
	return &Handler{
		repo:      repository,
		cache:     cacheInstance,
		runner:    compare.NewRunner(cacheInstance, logger.Log),
		limiter:   newTokenBucketLimiter(limits.RPS, limits.Burst),
		startTime: time.Now(),
	}
}

// Runner returns the solver runner shared with the web UI.
func (h *Handler) Runner() *compare.Runner {
	return h.runner
}

// SetupRouter configures the Chi router with all routes
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimitMiddleware(h.limiter))

		r.Get("/health", h.HandleHealth)
		r.Get("/solvers", h.HandleSolvers)
		r.Post("/solve", h.HandleSolve)
		r.Post("/compare", h.HandleCompare)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.HandleListDatasets)
			r.Post("/", h.HandleSaveDataset)
			r.Get("/{name}", h.HandleGetDataset)
			r.Delete("/{name}", h.HandleDeleteDataset)
			r.Get("/{name}/compare", h.HandleCompareDataset)
		})

		// Cache endpoints
		r.Get("/cache/stats", h.HandleCacheStats)
		r.Post("/cache/clear", h.HandleCacheClear)
	})

	return r
}

// HandleHealth returns service health status
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "connected",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.repo.Ping(); err != nil {
		response.Database = "disconnected"
	} else if stats, err := h.repo.GetStats(); err != nil {
		logger.Log.Warn("Failed to read catalog stats", zap.Error(err))
	} else {
		response.Catalog = stats
	}

	respondJSON(w, http.StatusOK, response)
}

// HandleSolvers lists the registered solvers
func (h *Handler) HandleSolvers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.SolversResponse{Solvers: algorithm.Names()})
}

// HandleSolve runs one solver on the posted dataset
func (h *Handler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	var req models.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	solver, err := algorithm.Lookup(req.Algorithm)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown algorithm", err)
		return
	}

	outcome, err := h.runner.Solve(solver, req.Dataset.ToDataset())
	if err != nil {
		respondSolveError(w, err)
		return
	}

	logger.Log.Info("Solved dataset",
		zap.String("algorithm", outcome.Solver),
		zap.Int("items", len(req.Dataset.Items)),
		zap.Bool("cached", outcome.Cached),
	)

	respondJSON(w, http.StatusOK, models.FromOutcome(outcome))
}

// HandleCompare compares the exact solver with its heuristic on the posted dataset
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.compare(w, "", req.Mode, req.Dataset.ToDataset())
}

// HandleListDatasets returns the stored datasets
func (h *Handler) HandleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.repo.ListDatasets()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list datasets", err)
		return
	}

	respondJSON(w, http.StatusOK, models.DatasetsResponse{Datasets: datasets, Count: len(datasets)})
}

// HandleSaveDataset stores a dataset in the catalog
func (h *Handler) HandleSaveDataset(w http.ResponseWriter, r *http.Request) {
	var req models.DatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.repo.SaveDataset(req.Name, req.Dataset.ToDataset()); err != nil {
		if errors.Is(err, algorithm.ErrInvalidDataset) {
			respondError(w, http.StatusBadRequest, "Invalid dataset", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to save dataset", err)
		return
	}

	respondJSON(w, http.StatusCreated, models.DatasetResponse{Name: req.Name, Dataset: req.Dataset})
}

// HandleGetDataset returns one stored dataset
func (h *Handler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, ok := h.loadDataset(w, name)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, models.DatasetResponse{Name: name, Dataset: models.FromDataset(ds)})
}

// HandleDeleteDataset removes a stored dataset
func (h *Handler) HandleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.repo.DeleteDataset(name); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Dataset not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete dataset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCompareDataset compares the solvers on a stored dataset
func (h *Handler) HandleCompareDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, ok := h.loadDataset(w, name)
	if !ok {
		return
	}

	h.compare(w, name, r.URL.Query().Get("mode"), ds)
}

// HandleCacheStats returns cache statistics
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.GetStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get cache stats", err)
		return
	}

	response := models.CacheStatsResponse{
		Enabled:    h.cache.IsEnabled(),
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		HitRate:    stats.HitRate,
		TotalKeys:  stats.TotalKeys,
		MemoryUsed: stats.MemoryUsed,
		Uptime:     stats.Uptime,
	}

	respondJSON(w, http.StatusOK, response)
}

// HandleCacheClear clears all cache entries
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cache cleared successfully"})
}

func (h *Handler) compare(w http.ResponseWriter, name, mode string, ds algorithm.Dataset) {
	if mode == "" {
		mode = algorithm.ModeAuto
	}
	if !algorithm.ValidMode(mode) {
		respondError(w, http.StatusBadRequest, "Mode must be single, multiple or auto", nil)
		return
	}

	pair, err := algorithm.PairFor(mode, ds)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid mode", err)
		return
	}

	comparison, err := h.runner.Compare(name, ds, pair)
	if err != nil {
		respondSolveError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.FromComparison(comparison))
}

func (h *Handler) loadDataset(w http.ResponseWriter, name string) (algorithm.Dataset, bool) {
	ds, err := h.repo.GetDataset(name)
	if errors.Is(err, repo.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dataset not found", err)
		return algorithm.Dataset{}, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load dataset", err)
		return algorithm.Dataset{}, false
	}
	return ds, true
}

// Helper functions

func respondSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, algorithm.ErrInvalidDataset):
		respondError(w, http.StatusBadRequest, "Invalid dataset", err)
	case errors.Is(err, algorithm.ErrTooManyItems):
		respondError(w, http.StatusUnprocessableEntity, "Dataset too large for exhaustive search", err)
	default:
		respondError(w, http.StatusInternalServerError, "Failed to solve dataset", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Error("Error encoding JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logger.Log.Error("Request error",
			zap.String("message", message),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	response := models.ErrorResponse{
		Error: message,
		Code:  status,
	}

	if err != nil {
		response.Message = err.Error()
	}

	respondJSON(w, status, response)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

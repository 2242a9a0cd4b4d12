package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/compare"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/models"
	"github.com/knapcmp/knapcmp/internal/report"
	"github.com/knapcmp/knapcmp/internal/repo"
)

//go:embed templates/* static/*
var content embed.FS

// Catalog is the part of the dataset repository the UI reads.
type Catalog interface {
	ListDatasets() ([]models.DatasetSummary, error)
	GetDataset(name string) (algorithm.Dataset, error)
}

// Handler handles web UI requests
type Handler struct {
	templates *template.Template
	catalog   Catalog
	runner    *compare.Runner
}

type indexPage struct {
	Datasets []models.DatasetSummary
}

type datasetPage struct {
	Name         string
	Mode         string
	Dataset      algorithm.Dataset
	Table        string
	ValuePercent float64
}

// NewHandler creates a new web handler
func NewHandler(catalog Catalog, runner *compare.Runner) (*Handler, error) {
	// Parse templates
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		templates: tmpl,
		catalog:   catalog,
		runner:    runner,
	}, nil
}

// SetupRoutes adds web UI routes to the router
func (h *Handler) SetupRoutes(r *chi.Mux) {
	// Serve static files
	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		logger.Log.Fatal("Failed to create static filesystem", zap.Error(err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", h.HandleIndex)
	r.Get("/datasets/{name}", h.HandleDataset)
}

// HandleIndex lists the stored datasets
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.catalog.ListDatasets()
	if err != nil {
		logger.Log.Error("Failed to list datasets", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, "index.html", indexPage{Datasets: datasets})
}

// HandleDataset renders the comparison table for one stored dataset
func (h *Handler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, err := h.catalog.GetDataset(name)
	if errors.Is(err, repo.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Log.Error("Failed to load dataset", zap.String("name", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = algorithm.ModeAuto
	}
	pair, err := algorithm.PairFor(mode, ds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comparison, err := h.runner.Compare(name, ds, pair)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, algorithm.ErrTooManyItems) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	var table bytes.Buffer
	if err := report.Table(&table, comparison); err != nil {
		logger.Log.Error("Error rendering comparison", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, "dataset.html", datasetPage{
		Name:         name,
		Mode:         mode,
		Dataset:      ds,
		Table:        table.String(),
		ValuePercent: comparison.ValueRatio * 100,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Log.Error("Error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

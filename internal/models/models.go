package models

import (
	"time"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/compare"
)

// ItemDTO is the wire form of an item. Amount -1 means unlimited and a
// missing amount means a single copy.
type ItemDTO struct {
	Weight int  `json:"weight"`
	Value  int  `json:"value"`
	Amount *int `json:"amount,omitempty"`
}

// DatasetDTO is the wire form of a dataset
type DatasetDTO struct {
	MaxWeight int       `json:"max_weight"`
	Items     []ItemDTO `json:"items"`
}

// ToDataset converts the DTO into a dataset
func (d DatasetDTO) ToDataset() algorithm.Dataset {
	ds := algorithm.Dataset{MaxWeight: d.MaxWeight, Items: make([]algorithm.Item, 0, len(d.Items))}
	for _, it := range d.Items {
		amount := algorithm.Bounded(1)
		if it.Amount != nil {
			amount = algorithm.AmountFromInt(*it.Amount)
		}
		ds.AddItem(algorithm.Item{Weight: it.Weight, Value: it.Value, Amount: amount})
	}
	return ds
}

// FromDataset converts a dataset into its wire form
func FromDataset(ds algorithm.Dataset) DatasetDTO {
	return DatasetDTO{MaxWeight: ds.MaxWeight, Items: fromItems(ds.Items)}
}

func fromItems(items []algorithm.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		amount := it.Amount.Int()
		out = append(out, ItemDTO{Weight: it.Weight, Value: it.Value, Amount: &amount})
	}
	return out
}

// SolveRequest represents the API request for a single solver run
type SolveRequest struct {
	Algorithm string     `json:"algorithm"`
	Dataset   DatasetDTO `json:"dataset"`
}

// SolutionResponse represents one solver result
type SolutionResponse struct {
	Algorithm         string    `json:"algorithm"`
	TotalWeight       int       `json:"total_weight"`
	TotalValue        int       `json:"total_value"`
	Iterations        int       `json:"iterations"`
	SelectedItems     []ItemDTO `json:"selected_items"`
	CalculationTimeNs int64     `json:"calculation_time_ns"`
	Cached            bool      `json:"cached"` // Whether result was from cache
}

// FromOutcome converts a solver outcome into its response form
func FromOutcome(o compare.Outcome) SolutionResponse {
	return SolutionResponse{
		Algorithm:         o.Solver,
		TotalWeight:       o.Solution.TotalWeight,
		TotalValue:        o.Solution.TotalValue,
		Iterations:        o.Solution.Iterations,
		SelectedItems:     fromItems(o.Solution.SelectedItems),
		CalculationTimeNs: o.Duration.Nanoseconds(),
		Cached:            o.Cached,
	}
}

// CompareRequest represents the API request for a comparison
type CompareRequest struct {
	Mode    string     `json:"mode,omitempty"` // single, multiple or auto (default)
	Dataset DatasetDTO `json:"dataset"`
}

// ComparisonResponse represents an exact/heuristic comparison
type ComparisonResponse struct {
	Name       string           `json:"name,omitempty"`
	MaxWeight  int              `json:"max_weight"`
	Exact      SolutionResponse `json:"exact"`
	Heuristic  SolutionResponse `json:"heuristic"`
	ValueRatio float64          `json:"value_ratio"`
}

// FromComparison converts a comparison into its response form
func FromComparison(c compare.Comparison) ComparisonResponse {
	return ComparisonResponse{
		Name:       c.Name,
		MaxWeight:  c.Dataset.MaxWeight,
		Exact:      FromOutcome(c.Exact),
		Heuristic:  FromOutcome(c.Heuristic),
		ValueRatio: c.ValueRatio,
	}
}

// DatasetRequest stores a dataset in the catalog
type DatasetRequest struct {
	Name    string     `json:"name"`
	Dataset DatasetDTO `json:"dataset"`
}

// DatasetResponse represents a stored dataset
type DatasetResponse struct {
	Name    string     `json:"name"`
	Dataset DatasetDTO `json:"dataset"`
}

// DatasetSummary describes a stored dataset without its items
type DatasetSummary struct {
	Name      string    `json:"name"`
	MaxWeight int       `json:"max_weight"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// DatasetsResponse represents the API response for the catalog listing
type DatasetsResponse struct {
	Datasets []DatasetSummary `json:"datasets"`
	Count    int              `json:"count"`
}

// SolversResponse lists the registered solver names
type SolversResponse struct {
	Solvers []string `json:"solvers"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Database  string                 `json:"database,omitempty"`
	Catalog   map[string]interface{} `json:"catalog,omitempty"`
	Uptime    string                 `json:"uptime,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// CacheStatsResponse represents cache statistics
type CacheStatsResponse struct {
	Enabled    bool    `json:"enabled"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	TotalKeys  int64   `json:"total_keys"`
	MemoryUsed string  `json:"memory_used"`
	Uptime     string  `json:"uptime"`
}

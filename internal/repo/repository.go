package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/models"
)

// ErrNotFound is returned when a named dataset is not in the catalog.
var ErrNotFound = errors.New("dataset not found")

// Repository is the sqlite dataset catalog
type Repository struct {
	db *sql.DB
}

// New opens the catalog at dbPath and creates the schema if needed
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// initialize creates the database schema
func (r *Repository) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		max_weight INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS items (
		dataset_id INTEGER NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		weight INTEGER NOT NULL,
		value INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		PRIMARY KEY (dataset_id, position)
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveDataset stores ds under name, replacing any dataset with that name
func (r *Repository) SaveDataset(name string, ds algorithm.Dataset) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: dataset name is required", algorithm.ErrInvalidDataset)
	}
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM datasets WHERE name = ?", name); err != nil {
		return err
	}

	res, err := tx.Exec("INSERT INTO datasets (name, max_weight) VALUES (?, ?)", name, ds.MaxWeight)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO items (dataset_id, position, weight, value, amount) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range ds.Items {
		if _, err := stmt.Exec(id, i, it.Weight, it.Value, it.Amount.Int()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDataset loads the dataset stored under name
func (r *Repository) GetDataset(name string) (algorithm.Dataset, error) {
	var id int64
	var ds algorithm.Dataset
	err := r.db.QueryRow("SELECT id, max_weight FROM datasets WHERE name = ?", name).Scan(&id, &ds.MaxWeight)
	if errors.Is(err, sql.ErrNoRows) {
		return algorithm.Dataset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return algorithm.Dataset{}, err
	}

	rows, err := r.db.Query("SELECT weight, value, amount FROM items WHERE dataset_id = ? ORDER BY position", id)
	if err != nil {
		return algorithm.Dataset{}, err
	}
	defer rows.Close()

	ds.Items = []algorithm.Item{}
	for rows.Next() {
		var weight, value, amount int
		if err := rows.Scan(&weight, &value, &amount); err != nil {
			return algorithm.Dataset{}, err
		}
		ds.AddItem(algorithm.Item{Weight: weight, Value: value, Amount: algorithm.AmountFromInt(amount)})
	}

	return ds, rows.Err()
}

// ListDatasets returns a summary of every stored dataset, ordered by name
func (r *Repository) ListDatasets() ([]models.DatasetSummary, error) {
	query := `
		SELECT d.name, d.max_weight, d.created_at, COUNT(i.position)
		FROM datasets d
		LEFT JOIN items i ON i.dataset_id = d.id
		GROUP BY d.id
		ORDER BY d.name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.DatasetSummary{}
	for rows.Next() {
		var s models.DatasetSummary
		if err := rows.Scan(&s.Name, &s.MaxWeight, &s.CreatedAt, &s.ItemCount); err != nil {
			logger.Log.Warn("Error scanning row", zap.Error(err))
			continue
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// DeleteDataset removes the dataset stored under name
func (r *Repository) DeleteDataset(name string) error {
	res, err := r.db.Exec("DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// GetStats returns statistics about the database
func (r *Repository) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var datasets int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&datasets); err != nil {
		return nil, err
	}
	stats["total_datasets"] = datasets

	var items int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return nil, err
	}
	stats["total_items"] = items

	var latest sql.NullString
	if err := r.db.QueryRow("SELECT MAX(created_at) FROM datasets").Scan(&latest); err != nil {
		return nil, err
	}
	if latest.Valid {
		if ts, err := time.Parse(time.DateTime, latest.String); err == nil {
			stats["latest_import"] = ts
		}
	}

	return stats, nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping() error {
	return r.db.Ping()
}

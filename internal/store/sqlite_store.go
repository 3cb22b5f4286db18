// Package store provides persistent storage for user-defined colormap specs using SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

// ErrNameTaken is returned when a spec with the same name is already stored.
var ErrNameTaken = errors.New("spec name already stored")

// StoredSpec is a validated colormap spec persisted in the store.
type StoredSpec struct {
	ID        string        `json:"id"`
	Spec      colormap.Spec `json:"spec"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store provides persistent storage for colormap specs using SQLite.
type Store struct {
	db       *sql.DB
	mu       sync.Mutex
	resolver colormap.Resolver
}

// NewStore creates a new SQLite-based spec store. Specs are validated with
// resolver before they are saved; nil means colormap.DefaultResolver.
func NewStore(dbPath string, resolver colormap.Resolver) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if resolver == nil {
		resolver = colormap.DefaultResolver
	}
	s := &Store{db: db, resolver: resolver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS colormap_specs (
		spec_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		positions_json TEXT NOT NULL,
		colors_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_colormap_specs_created ON colormap_specs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSpec validates spec and stores it under a new ID.
func (s *Store) SaveSpec(spec colormap.Spec) (*StoredSpec, error) {
	if _, err := colormap.Build(spec, s.resolver); err != nil {
		return nil, err
	}

	positionsJSON, err := json.Marshal(spec.Positions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal positions: %w", err)
	}
	colorsJSON, err := json.Marshal(spec.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal colors: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err = s.db.QueryRow(`SELECT COUNT(1) FROM colormap_specs WHERE name = ?`, spec.Name).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, spec.Name)
	}

	stored := &StoredSpec{
		ID:        uuid.New().String(),
		Spec:      spec,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.Exec(`
		INSERT INTO colormap_specs (spec_id, name, positions_json, colors_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		stored.ID,
		spec.Name,
		string(positionsJSON),
		string(colorsJSON),
		stored.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetSpec retrieves a spec by ID. It returns nil, nil when the ID is unknown.
func (s *Store) GetSpec(specID string) (*StoredSpec, error) {
	row := s.db.QueryRow(`
		SELECT spec_id, name, positions_json, colors_json, created_at
		FROM colormap_specs WHERE spec_id = ?
	`, specID)
	return scanSpec(row)
}

// GetSpecByName retrieves a spec by name. It returns nil, nil when the name is unknown.
func (s *Store) GetSpecByName(name string) (*StoredSpec, error) {
	row := s.db.QueryRow(`
		SELECT spec_id, name, positions_json, colors_json, created_at
		FROM colormap_specs WHERE name = ?
	`, name)
	return scanSpec(row)
}

// ListSpecs returns all stored specs, oldest first.
func (s *Store) ListSpecs() ([]StoredSpec, error) {
	rows, err := s.db.Query(`
		SELECT spec_id, name, positions_json, colors_json, created_at
		FROM colormap_specs ORDER BY created_at ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []StoredSpec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	return specs, rows.Err()
}

// DeleteSpec removes a spec. It reports whether a row was deleted.
func (s *Store) DeleteSpec(specID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM colormap_specs WHERE spec_id = ?`, specID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpec(row scanner) (*StoredSpec, error) {
	var stored StoredSpec
	var positionsJSON, colorsJSON, createdAtStr string

	err := row.Scan(&stored.ID, &stored.Spec.Name, &positionsJSON, &colorsJSON, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(positionsJSON), &stored.Spec.Positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	if err := json.Unmarshal([]byte(colorsJSON), &stored.Spec.Colors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal colors: %w", err)
	}
	stored.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	return &stored, nil
}

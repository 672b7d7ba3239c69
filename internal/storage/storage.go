// Package storage persists named point sets and encoded k-d tree snapshots
// in a SQLite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

// ErrSetNotFound is returned when a named point set does not exist.
var ErrSetNotFound = errors.New("point set not found")

// Storage handles persistence of point sets and tree snapshots
type Storage struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
}

// PointSet describes one stored point set
type PointSet struct {
	Name        string
	Dimensions  int
	Count       int
	HasSnapshot bool
	CreatedAt   time.Time
}

// Option configures a Storage
type Option func(*Storage)

// WithLogger sets the logger used for schema and snapshot events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// NewStorage opens (creating if needed) the database at dbPath
func NewStorage(dbPath string, opts ...Option) (*Storage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, dbPath: dbPath, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// migrations defines all schema migrations
// Each migration should be idempotent (safe to run multiple times)
var migrations = []struct {
	version     int
	description string
	up          string
}{
	{
		version:     1,
		description: "Initial schema",
		up:          "", // Handled by base schema creation
	},
	{
		version:     2,
		description: "Add tree snapshots",
		up: `
			CREATE TABLE IF NOT EXISTS tree_snapshots (
				set_id INTEGER PRIMARY KEY,
				encoded BLOB NOT NULL,
				node_count INTEGER NOT NULL,
				depth INTEGER NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// init creates the database schema
func (s *Storage) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS point_sets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		dimensions INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS points (
		set_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		coords BLOB NOT NULL,
		PRIMARY KEY (set_id, seq)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// migrate runs pending schema migrations
func (s *Storage) migrate() error {
	currentVersion := s.getSchemaVersion()

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if m.up != "" {
			if _, err := s.db.Exec(m.up); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
			}
		}
		if err := s.setSchemaVersion(m.version); err != nil {
			return err
		}
		s.logger.Debug("applied migration", slog.Int("version", m.version), slog.String("description", m.description))
	}

	return nil
}

// getSchemaVersion returns the current schema version
func (s *Storage) getSchemaVersion() int {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0
	}
	return version
}

// setSchemaVersion records a migration as applied
func (s *Storage) setSchemaVersion(version int) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SavePoints stores points under name, replacing any set with that name.
// All points must share one dimensionality.
func (s *Storage) SavePoints(name string, points []kdtree.Vector) error {
	dims, err := commonDimensions(points)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	setID, err := replaceSet(tx, name, dims)
	if err != nil {
		return err
	}
	if err := insertPoints(tx, setID, points); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tree_snapshots WHERE set_id = ?`, setID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	return tx.Commit()
}

// SaveTree stores the tree's elements and its encoded shape under name,
// replacing any set with that name.
func (s *Storage) SaveTree(name string, tree kdtree.Tree[kdtree.Vector]) error {
	points := tree.Elements()
	dims, err := commonDimensions(points)
	if err != nil {
		return err
	}
	encoded, err := msgpack.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	setID, err := replaceSet(tx, name, dims)
	if err != nil {
		return err
	}
	if err := insertPoints(tx, setID, points); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO tree_snapshots (set_id, encoded, node_count, depth, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, setID, encoded, len(points), tree.Depth())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("saved tree snapshot",
		slog.String("set", name),
		slog.Int("points", len(points)),
		slog.Int("bytes", len(encoded)),
	)
	return nil
}

// LoadPoints returns the points stored under name in insertion order
func (s *Storage) LoadPoints(name string) ([]kdtree.Vector, error) {
	setID, err := s.lookupSet(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT coords FROM points WHERE set_id = ? ORDER BY seq`, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	var points []kdtree.Vector
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		var coords []float64
		if err := msgpack.Unmarshal(blob, &coords); err != nil {
			return nil, fmt.Errorf("failed to decode point: %w", err)
		}
		points = append(points, kdtree.Vector(coords))
	}
	return points, rows.Err()
}

// LoadTree returns the tree stored under name. The saved snapshot is used
// when present; otherwise the tree is built from the stored points with cfg.
func (s *Storage) LoadTree(name string, cfg kdtree.Config) (kdtree.Tree[kdtree.Vector], error) {
	var tree kdtree.Tree[kdtree.Vector]

	setID, err := s.lookupSet(name)
	if err != nil {
		return tree, err
	}

	var encoded []byte
	err = s.db.QueryRow(`SELECT encoded FROM tree_snapshots WHERE set_id = ?`, setID).Scan(&encoded)
	switch {
	case err == nil:
		if err := msgpack.Unmarshal(encoded, &tree); err != nil {
			return tree, fmt.Errorf("failed to decode snapshot for %q: %w", name, err)
		}
		s.logger.Debug("loaded tree snapshot", slog.String("set", name), slog.Int("bytes", len(encoded)))
		return tree, nil
	case !errors.Is(err, sql.ErrNoRows):
		return tree, fmt.Errorf("failed to query snapshot: %w", err)
	}

	points, err := s.LoadPoints(name)
	if err != nil {
		return tree, err
	}
	start := time.Now()
	tree, err = kdtree.New(points, cfg)
	if err != nil {
		return tree, err
	}
	s.logger.Debug("built tree from points",
		slog.String("set", name),
		slog.Int("points", len(points)),
		slog.Duration("duration", time.Since(start)),
	)
	return tree, nil
}

// ListSets returns every stored point set ordered by name
func (s *Storage) ListSets() ([]PointSet, error) {
	rows, err := s.db.Query(`
		SELECT ps.name, ps.dimensions, ps.created_at,
			(SELECT COUNT(*) FROM points p WHERE p.set_id = ps.id),
			EXISTS (SELECT 1 FROM tree_snapshots t WHERE t.set_id = ps.id)
		FROM point_sets ps
		ORDER BY ps.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query point sets: %w", err)
	}
	defer rows.Close()

	var sets []PointSet
	for rows.Next() {
		var ps PointSet
		if err := rows.Scan(&ps.Name, &ps.Dimensions, &ps.CreatedAt, &ps.Count, &ps.HasSnapshot); err != nil {
			return nil, fmt.Errorf("failed to scan point set: %w", err)
		}
		sets = append(sets, ps)
	}
	return sets, rows.Err()
}

// DeleteSet removes the point set, its points and its snapshot
func (s *Storage) DeleteSet(name string) error {
	setID, err := s.lookupSet(name)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM points WHERE set_id = ?`,
		`DELETE FROM tree_snapshots WHERE set_id = ?`,
		`DELETE FROM point_sets WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, setID); err != nil {
			return fmt.Errorf("failed to delete point set: %w", err)
		}
	}
	return tx.Commit()
}

// lookupSet returns the id of the named set
func (s *Storage) lookupSet(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM point_sets WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrSetNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query point set: %w", err)
	}
	return id, nil
}

// replaceSet creates the named set, or empties it if it already exists
func replaceSet(tx *sql.Tx, name string, dims int) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO point_sets (name, dimensions) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET dimensions = excluded.dimensions
	`, name, dims)
	if err != nil {
		return 0, fmt.Errorf("failed to save point set: %w", err)
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM point_sets WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query point set: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM points WHERE set_id = ?`, id); err != nil {
		return 0, fmt.Errorf("failed to clear points: %w", err)
	}
	return id, nil
}

func insertPoints(tx *sql.Tx, setID int64, points []kdtree.Vector) error {
	stmt, err := tx.Prepare(`INSERT INTO points (set_id, seq, coords) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		blob, err := msgpack.Marshal([]float64(p))
		if err != nil {
			return fmt.Errorf("failed to encode point %d: %w", i, err)
		}
		if _, err := stmt.Exec(setID, i, blob); err != nil {
			return fmt.Errorf("failed to save point %d: %w", i, err)
		}
	}
	return nil
}

// commonDimensions returns the dimensionality shared by all points
func commonDimensions(points []kdtree.Vector) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	dims := len(points[0])
	if dims == 0 {
		return 0, errors.New("points must have at least one coordinate")
	}
	for i, p := range points {
		if len(p) != dims {
			return 0, fmt.Errorf("point %d has %d coordinates, expected %d", i, len(p), dims)
		}
	}
	return dims, nil
}

// Package store persists diagrams to SQLite. It implements the session
// package's Persister interface, so a session can be wired straight to a
// local database file.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"flowcanvas/core"
)

// ErrNotFound is returned when a node or connection id does not exist.
var ErrNotFound = errors.New("store: not found")

// Store handles SQLite database operations for diagram persistence.
type Store struct {
	db *sql.DB
}

// Open creates a Store over the given database path, creating the schema
// if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		x REAL NOT NULL DEFAULT 0,
		y REAL NOT NULL DEFAULT 0,
		width REAL,
		height REAL,
		style TEXT,
		label TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS connections (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		source_handle TEXT NOT NULL DEFAULT '',
		target_handle TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (source_id) REFERENCES nodes(id),
		FOREIGN KEY (target_id) REFERENCES nodes(id)
	);

	CREATE INDEX IF NOT EXISTS idx_connections_source ON connections(source_id);
	CREATE INDEX IF NOT EXISTS idx_connections_target ON connections(target_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// NewID returns a fresh identifier for a node or connection.
func NewID() string {
	return uuid.NewString()
}

// LoadDiagram reads the full diagram.
func (s *Store) LoadDiagram(ctx context.Context) (core.Diagram, error) {
	var d core.Diagram

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, x, y, width, height, style, label, body FROM nodes ORDER BY id`)
	if err != nil {
		return d, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n core.Node
		var width, height sql.NullFloat64
		var style sql.NullString
		if err := rows.Scan(&n.ID, &n.Type, &n.Position.X, &n.Position.Y,
			&width, &height, &style, &n.Label, &n.Body); err != nil {
			return d, fmt.Errorf("scan node: %w", err)
		}
		if width.Valid && height.Valid {
			n.SetDimensions(core.Size{Width: width.Float64, Height: height.Float64})
		}
		if style.Valid && style.String != "" {
			if err := json.Unmarshal([]byte(style.String), &n.Style); err != nil {
				return d, fmt.Errorf("decode style for node %s: %w", n.ID, err)
			}
		}
		d.Nodes = append(d.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return d, fmt.Errorf("iterate nodes: %w", err)
	}

	connRows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, target_id, source_handle, target_handle, label
		 FROM connections ORDER BY id`)
	if err != nil {
		return d, fmt.Errorf("query connections: %w", err)
	}
	defer connRows.Close()
	for connRows.Next() {
		var c core.Connection
		if err := connRows.Scan(&c.ID, &c.SourceID, &c.TargetID,
			&c.SourceHandle, &c.TargetHandle, &c.Label); err != nil {
			return d, fmt.Errorf("scan connection: %w", err)
		}
		d.Connections = append(d.Connections, c)
	}
	if err := connRows.Err(); err != nil {
		return d, fmt.Errorf("iterate connections: %w", err)
	}

	return d, nil
}

// UpdateNodePosition stores a node's final drag coordinates.
func (s *Store) UpdateNodePosition(ctx context.Context, id string, pos core.Point) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET x = ?, y = ? WHERE id = ?`, pos.X, pos.Y, id)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	return checkAffected(res, id)
}

// UpdateNodeStyle stores a node's merged style payload. Width and height in
// the payload are clamped to the node type's minimum before writing.
func (s *Store) UpdateNodeStyle(ctx context.Context, id string, style map[string]any) error {
	var nodeType core.NodeType
	err := s.db.QueryRowContext(ctx, `SELECT type FROM nodes WHERE id = ?`, id).Scan(&nodeType)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read node type: %w", err)
	}

	width, height := styleSize(style)
	var w, h any
	if width > 0 && height > 0 {
		size := core.ClampSize(nodeType, core.Size{Width: width, Height: height})
		style["width"] = size.Width
		style["height"] = size.Height
		w, h = size.Width, size.Height
	}

	encoded, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("encode style: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET style = ?, width = COALESCE(?, width), height = COALESCE(?, height) WHERE id = ?`,
		string(encoded), w, h, id)
	if err != nil {
		return fmt.Errorf("update style: %w", err)
	}
	return checkAffected(res, id)
}

// CreateNode inserts a node. A blank id is assigned a fresh one.
func (s *Store) CreateNode(ctx context.Context, n core.Node) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	var width, height any
	if n.Dimensions != nil {
		size := core.ClampSize(n.Type, *n.Dimensions)
		width, height = size.Width, size.Height
	}
	var style any
	if n.Style != nil {
		encoded, err := json.Marshal(n.Style)
		if err != nil {
			return fmt.Errorf("encode style: %w", err)
		}
		style = string(encoded)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, type, x, y, width, height, style, label, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, string(n.Type), n.Position.X, n.Position.Y, width, height, style, n.Label, n.Body)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	return nil
}

// DeleteNode removes a node and every connection touching it.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM connections WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
		return fmt.Errorf("delete connections: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	if err := checkAffected(res, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateConnection inserts a connection. A blank id is assigned a fresh one.
func (s *Store) CreateConnection(ctx context.Context, c core.Connection) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO connections (id, source_id, target_id, source_handle, target_handle, label)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.SourceID, c.TargetID, c.SourceHandle, c.TargetHandle, c.Label)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

// UpdateConnectionLabel stores a connection's label text.
func (s *Store) UpdateConnectionLabel(ctx context.Context, id, label string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE connections SET label = ? WHERE id = ?`, label, id)
	if err != nil {
		return fmt.Errorf("update connection label: %w", err)
	}
	return checkAffected(res, id)
}

// DeleteConnection removes a connection.
func (s *Store) DeleteConnection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func styleSize(style map[string]any) (width, height float64) {
	if v, ok := style["width"]; ok {
		width = toFloat(v)
	}
	if v, ok := style["height"]; ok {
		height = toFloat(v)
	}
	return width, height
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

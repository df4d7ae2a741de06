// Package sqlite provides a SQLite-backed RunStore: a zero-configuration
// file database for single-process hosts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/dagflow/store"
)

// SqliteRunStore implements store.RunStore using SQLite.
type SqliteRunStore struct {
	db        *sql.DB
	tableName string
}

var _ store.RunStore = (*SqliteRunStore)(nil)

// SqliteOptions configuration for the SQLite database.
type SqliteOptions struct {
	Path      string
	TableName string // Default "runs"
}

// NewSqliteRunStore opens the database and ensures the schema exists.
func NewSqliteRunStore(opts SqliteOptions) (*SqliteRunStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "runs"
	}

	s := &SqliteRunStore{db: db, tableName: tableName}
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema creates the runs table if it doesn't exist.
func (s *SqliteRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			input TEXT,
			output TEXT,
			status TEXT NOT NULL,
			error TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			metadata TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteRunStore) Close() error {
	return s.db.Close()
}

// Save stores a record, replacing any record with the same ID.
func (s *SqliteRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	inputJSON, err := json.Marshal(record.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	outputJSON, err := json.Marshal(record.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, graph, input, output, status, error, started_at, finished_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			graph = excluded.graph,
			input = excluded.input,
			output = excluded.output,
			status = excluded.status,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			metadata = excluded.metadata
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Graph,
		string(inputJSON),
		string(outputJSON),
		string(record.Status),
		record.Error,
		record.StartedAt,
		record.FinishedAt,
		string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *SqliteRunStore) Load(ctx context.Context, runID string) (*store.RunRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, graph, input, output, status, error, started_at, finished_at, metadata
		FROM %s WHERE id = ?
	`, s.tableName)

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, runID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run record not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}
	return record, nil
}

// List returns all records for a graph name.
func (s *SqliteRunStore) List(ctx context.Context, graphName string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, graph, input, output, status, error, started_at, finished_at, metadata
		FROM %s WHERE graph = ? ORDER BY started_at
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, graphName)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	var records []*store.RunRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Delete removes a record.
func (s *SqliteRunStore) Delete(ctx context.Context, runID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, runID); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a graph name.
func (s *SqliteRunStore) Clear(ctx context.Context, graphName string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE graph = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, graphName); err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*store.RunRecord, error) {
	var record store.RunRecord
	var inputJSON, outputJSON, metadataJSON string

	err := row.Scan(
		&record.ID,
		&record.Graph,
		&inputJSON,
		&outputJSON,
		&record.Status,
		&record.Error,
		&record.StartedAt,
		&record.FinishedAt,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(inputJSON), &record.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}
	if err := json.Unmarshal([]byte(outputJSON), &record.Output); err != nil {
		return nil, fmt.Errorf("failed to unmarshal output: %w", err)
	}
	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &record, nil
}

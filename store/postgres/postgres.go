// Package postgres provides a PostgreSQL-backed RunStore over pgx, suited
// to production hosts with shared storage.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/dagflow/store"
)

// DBPool defines the interface for the connection pool. It matches
// pgxpool.Pool and pgxmock, so tests can run against a mock.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRunStore implements store.RunStore using PostgreSQL.
type PostgresRunStore struct {
	pool      DBPool
	tableName string
}

var _ store.RunStore = (*PostgresRunStore)(nil)

// PostgresOptions configuration for the Postgres connection.
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "runs"
}

// NewPostgresRunStore creates a new Postgres run store.
func NewPostgresRunStore(ctx context.Context, opts PostgresOptions) (*PostgresRunStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "runs"
	}

	return &PostgresRunStore{pool: pool, tableName: tableName}, nil
}

// NewPostgresRunStoreWithPool creates a run store with an existing pool.
// Useful for testing with mocks.
func NewPostgresRunStoreWithPool(pool DBPool, tableName string) *PostgresRunStore {
	if tableName == "" {
		tableName = "runs"
	}
	return &PostgresRunStore{pool: pool, tableName: tableName}
}

// InitSchema creates the runs table if it doesn't exist.
func (s *PostgresRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			input JSONB,
			output JSONB,
			status TEXT NOT NULL,
			error TEXT,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			metadata JSONB
		);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresRunStore) Close() {
	s.pool.Close()
}

// Save stores a record, replacing any record with the same ID.
func (s *PostgresRunStore) Save(ctx context.Context, record *store.RunRecord) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			graph = EXCLUDED.graph,
			input = EXCLUDED.input,
			output = EXCLUDED.output,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			metadata = EXCLUDED.metadata
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		record.ID,
		record.Graph,
		inputJSON,
		outputJSON,
		string(record.Status),
		record.Error,
		record.StartedAt,
		record.FinishedAt,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *PostgresRunStore) Load(ctx context.Context, runID string) (*store.RunRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, graph, input, output, status, error, started_at, finished_at, metadata
		FROM %s WHERE id = $1
	`, s.tableName)

	record, err := scanRecord(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("run record not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}
	return record, nil
}

// List returns all records for a graph name.
func (s *PostgresRunStore) List(ctx context.Context, graphName string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, graph, input, output, status, error, started_at, finished_at, metadata
		FROM %s WHERE graph = $1 ORDER BY started_at
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, graphName)
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
func (s *PostgresRunStore) Delete(ctx context.Context, runID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, runID); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a graph name.
func (s *PostgresRunStore) Clear(ctx context.Context, graphName string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE graph = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, graphName); err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*store.RunRecord, error) {
	var record store.RunRecord
	var inputJSON, outputJSON, metadataJSON []byte

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

	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &record.Input); err != nil {
			return nil, fmt.Errorf("failed to unmarshal input: %w", err)
		}
	}
	if len(outputJSON) > 0 {
		if err := json.Unmarshal(outputJSON, &record.Output); err != nil {
			return nil, fmt.Errorf("failed to unmarshal output: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &record, nil
}

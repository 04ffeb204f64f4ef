package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	json "github.com/json-iterator/go"
)

// Document is one record of a collection, keyed by an opaque identifier.
type Document struct {
	ID   string
	Data []byte
}

// DocumentStore is the narrow surface of the remote document collection:
// create, read-all-with-order, and partial update by identifier.
type DocumentStore interface {
	Create(ctx context.Context, collection string, record any) (string, error)
	QueryAll(ctx context.Context, collection, orderByField string, descending bool) ([]Document, error)
	UpdateFields(ctx context.Context, collection, id string, partial map[string]any) error
}

type documentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore returns a DocumentStore backed by a jsonb collection table.
func NewDocumentStore(pool *pgxpool.Pool) DocumentStore {
	return &documentStore{pool: pool}
}

func (s *documentStore) Create(ctx context.Context, collection string, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.NewString()
	const query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *documentStore) QueryAll(ctx context.Context, collection, orderByField string, descending bool) ([]Document, error) {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	// The order field is a timestamp inside the json payload.
	query := fmt.Sprintf(
		`SELECT id, data FROM documents WHERE collection=$1 ORDER BY (data->>$2)::timestamptz %s`,
		direction,
	)
	rows, err := s.pool.Query(ctx, query, collection, orderByField)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func (s *documentStore) UpdateFields(ctx context.Context, collection, id string, partial map[string]any) error {
	data, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("encode partial update: %w", err)
	}
	const query = `UPDATE documents SET data = data || $3::jsonb WHERE collection=$1 AND id=$2`
	cmd, err := s.pool.Exec(ctx, query, collection, id, data)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"github.com/soundprediction/graphrag/pkg/types"
)

const (
	serviceName  = "pgvector"
	DefaultTable = "chunks"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PGVectorStore implements Store on PostgreSQL with the pgvector extension.
type PGVectorStore struct {
	conn       pgxIConn
	pool       *pgxpool.Pool
	table      string
	dimensions int
}

// Config configures a PGVectorStore.
type Config struct {
	URL        string
	Table      string
	Dimensions int
}

// NewPGVectorStore connects to Postgres, makes sure the vector extension is
// installed and registers the vector types on every pooled connection.
func NewPGVectorStore(ctx context.Context, cfg Config) (*PGVectorStore, error) {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if !tableName.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", cfg.Dimensions)
	}

	if err := ensureExtension(ctx, cfg.URL); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapError("connect", err)
	}

	return &PGVectorStore{
		conn:       pool,
		pool:       pool,
		table:      cfg.Table,
		dimensions: cfg.Dimensions,
	}, nil
}

func ensureExtension(ctx context.Context, url string) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return wrapError("connect", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return wrapError("create extension", err)
	}
	return nil
}

// EnsureSchema creates the chunk table and its cosine index.
func (s *PGVectorStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			chunk_id   TEXT PRIMARY KEY,
			doc_id     TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL DEFAULT '',
			text       TEXT NOT NULL,
			entity_ids TEXT NOT NULL DEFAULT '',
			embedding  vector(%d) NOT NULL
		)`, s.table, s.dimensions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, s.table, s.table),
	}

	for _, stmt := range statements {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return wrapError("ensure schema", err)
		}
	}
	return nil
}

// SimilaritySearch returns the k nearest chunks by cosine distance. The score
// is the cosine similarity, 1 - distance.
func (s *PGVectorStore) SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]types.ScoredChunk, error) {
	if k <= 0 {
		return nil, types.ErrInvalidLimit
	}

	query := fmt.Sprintf(`
		SELECT chunk_id, text, entity_ids, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, s.table)

	rows, err := s.conn.Query(ctx, query, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, wrapError("similarity search", err)
	}
	defer rows.Close()

	var results []types.ScoredChunk
	for rows.Next() {
		var hit types.ScoredChunk
		if err := rows.Scan(&hit.ChunkID, &hit.Text, &hit.EntityIDs, &hit.Score); err != nil {
			return nil, types.NewMalformedDataError(serviceName, "row", err.Error())
		}
		results = append(results, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("similarity search", err)
	}

	return results, nil
}

// UpsertChunk inserts or replaces a chunk.
func (s *PGVectorStore) UpsertChunk(ctx context.Context, chunk types.Chunk, embedding []float32, entityIDs []string) error {
	if chunk.ChunkID == "" {
		return types.ErrEmptyID
	}
	if len(embedding) != s.dimensions {
		return fmt.Errorf("embedding has %d dimensions, store expects %d", len(embedding), s.dimensions)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (chunk_id, doc_id, source, text, entity_ids, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chunk_id) DO UPDATE SET
			doc_id = EXCLUDED.doc_id,
			source = EXCLUDED.source,
			text = EXCLUDED.text,
			entity_ids = EXCLUDED.entity_ids,
			embedding = EXCLUDED.embedding
	`, s.table)

	_, err := s.conn.Exec(ctx, query,
		chunk.ChunkID,
		chunk.DocID,
		chunk.Source,
		chunk.Text,
		JoinEntityIDs(entityIDs),
		pgvector.NewVector(embedding),
	)
	if err != nil {
		return wrapError("upsert chunk", err)
	}
	return nil
}

// Ping checks the connection pool.
func (s *PGVectorStore) Ping(ctx context.Context) error {
	if err := s.conn.Ping(ctx); err != nil {
		return types.NewUnavailableError(serviceName, "ping", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PGVectorStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func wrapError(op string, err error) error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return types.NewUnavailableError(serviceName, op, err)
	}
	return fmt.Errorf("pgvector %s failed: %w", op, err)
}

var _ Store = (*PGVectorStore)(nil)

// Package sqlite provides SQLite-backed chunk storage and similarity
// search.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

// Store interface assertions.
var (
	_ driven.ChunkStore     = (*Store)(nil)
	_ driven.VectorSearcher = (*Store)(nil)
)

// Store is a SQLite-backed chunk store. It also serves similarity
// queries by scanning stored embeddings, which is adequate for corpus
// sizes in the tens of thousands of chunks.
type Store struct {
	db   *sql.DB
	path string
}

// schema is the chunk table definition. Chunks are keyed by
// (source_id, chunk_index); resubmitting a source replaces its whole
// chunk set, so there is no in-place update path.
const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id           TEXT NOT NULL,
	source_id    TEXT NOT NULL,
	chunk_index  INTEGER NOT NULL,
	total_chunks INTEGER NOT NULL,
	text         TEXT NOT NULL,
	char_length  INTEGER NOT NULL,
	language     TEXT NOT NULL,
	embedding    BLOB,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL,
	PRIMARY KEY (source_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_id);
CREATE INDEX IF NOT EXISTS idx_chunks_language ON chunks(language);
`

// NewStore opens (or creates) the chunk database under dataDir.
// If dataDir is empty, defaults to ~/.khoji/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".khoji", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "khoji.db")

	// WAL mode for concurrent readers during ingestion.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InsertChunks bulk-inserts chunks for a source in one transaction.
func (s *Store) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks
			(id, source_id, chunk_index, total_chunks, text, char_length, language, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, chunk_index) DO UPDATE SET
			id = excluded.id,
			total_chunks = excluded.total_chunks,
			text = excluded.text,
			char_length = excluded.char_length,
			language = excluded.language,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.SourceID, chunk.Index,
			chunk.TotalChunks, chunk.Text, chunk.CharLength, string(chunk.Language),
			embeddingBlob, chunk.CreatedAt, chunk.UpdatedAt); err != nil {
			return fmt.Errorf("inserting chunk %d of %q: %w", chunk.Index, chunk.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteBySource removes all chunks of a source and returns how many
// were removed.
func (s *Store) DeleteBySource(ctx context.Context, sourceID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks of %q: %w", sourceID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return int(affected), nil
}

// ListBySource returns all chunks of a source ordered by index.
// Embeddings are not hydrated.
func (s *Store) ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, chunk_index, total_chunks, text, char_length, language, created_at, updated_at
		FROM chunks WHERE source_id = ?
		ORDER BY chunk_index
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var language string
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.Index, &chunk.TotalChunks,
			&chunk.Text, &chunk.CharLength, &language, &chunk.CreatedAt, &chunk.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Language = domain.Language(language)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// CountBySource returns the number of stored chunks for a source.
func (s *Store) CountBySource(ctx context.Context, sourceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE source_id = ?", sourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks of %q: %w", sourceID, err)
	}
	return count, nil
}

// ListSources returns the distinct source ids with stored chunks.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT source_id FROM chunks ORDER BY source_id")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning source id: %w", err)
		}
		sources = append(sources, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// Search scans stored embeddings and ranks them by cosine similarity
// against the query vector. Metadata filters narrow the scan in SQL;
// similarity is computed in process.
func (s *Store) Search(ctx context.Context, query []float32, opts driven.SearchOptions) ([]domain.RetrievedDocument, error) {
	sqlQuery := `
		SELECT source_id, chunk_index, total_chunks, text, language, embedding, created_at
		FROM chunks WHERE embedding IS NOT NULL`
	var args []any

	if f := opts.Filter; f != nil {
		if f.SourceID != "" {
			sqlQuery += " AND source_id = ?"
			args = append(args, f.SourceID)
		}
		if f.Language != "" {
			sqlQuery += " AND language = ?"
			args = append(args, string(f.Language))
		}
		if f.ChunkIndex != nil {
			sqlQuery += " AND chunk_index = ?"
			args = append(args, *f.ChunkIndex)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievedDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.RetrievedDocument
		var language string
		var embeddingBlob []byte
		if err := rows.Scan(&doc.SourceID, &doc.Index, &doc.TotalChunks,
			&doc.Text, &language, &embeddingBlob, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		doc.Language = domain.Language(language)
		doc.Score = cosineSimilarity(query, bytesToFloat32Slice(embeddingBlob))
		hits = append(hits, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if opts.Candidates > 0 && len(hits) > opts.Candidates {
		hits = hits[:opts.Candidates]
	}
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// cosineSimilarity computes cosine similarity between two vectors,
// clamped to [0,1]. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

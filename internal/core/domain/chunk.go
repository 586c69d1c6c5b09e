package domain

import "time"

// Chunk represents a bounded slice of a source document's text,
// embedded and stored independently.
//
// Chunks of one source are replaced as a set (delete-all-then-reinsert)
// whenever the source is resubmitted; they are never patched in place.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceID identifies the source document this chunk belongs to.
	SourceID string

	// Index is the ordinal position within the source document.
	// Indices are contiguous from 0 to TotalChunks-1 per source.
	Index int

	// TotalChunks is the number of chunks the source was split into.
	// Equal across all chunks of one source.
	TotalChunks int

	// Text is the chunk content after preprocessing.
	Text string

	// CharLength is len(Text) at storage time.
	CharLength int

	// Language is the language detected on the full source text.
	Language Language

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time

	// UpdatedAt is when the chunk was last written.
	UpdatedAt time.Time
}

// RetrievedDocument is a read-only projection of a Chunk plus the
// similarity score assigned by the search at query time. It is owned
// transiently by one retrieval call.
type RetrievedDocument struct {
	// SourceID identifies the source document.
	SourceID string

	// Index is the chunk's ordinal position within the source.
	Index int

	// TotalChunks is the source's chunk count.
	TotalChunks int

	// Text is the chunk content.
	Text string

	// Language is the detected language of the source.
	Language Language

	// Score is the similarity score from the vector search (0-1).
	Score float64

	// CreatedAt is when the underlying chunk was stored.
	CreatedAt time.Time
}

// IngestReceipt summarises one chunked submission of a source document.
//
// A submission where some chunks stored and some failed is reported
// through the Successful/Failed counts rather than failing the whole
// request; zero successful chunks means the submission failed.
type IngestReceipt struct {
	// SourceID identifies the submitted source document.
	SourceID string

	// TotalChunks is how many chunks the text was split into.
	TotalChunks int

	// SuccessfulChunks is how many chunks were embedded and stored.
	SuccessfulChunks int

	// FailedChunks is how many chunks could not be stored.
	FailedChunks int

	// ChunkIDs are the identifiers of the stored chunks, in index order.
	ChunkIDs []string

	// Dimensions is the embedding vector size, 0 when nothing was stored.
	Dimensions int

	// Language is the language detected on the full source text.
	Language Language
}

// Succeeded reports whether at least one chunk was stored.
func (r IngestReceipt) Succeeded() bool {
	return r.SuccessfulChunks > 0
}

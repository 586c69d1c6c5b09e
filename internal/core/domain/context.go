package domain

// SourceAttribution records the provenance of one document included
// in a RAGContext.
type SourceAttribution struct {
	// SourceID identifies the source document.
	SourceID string

	// ChunkIndex is the chunk's ordinal position within the source.
	ChunkIndex int

	// Score is the similarity score the chunk was retrieved with,
	// rounded to four decimal places.
	Score float64

	// Language is the detected language of the source.
	Language Language
}

// RAGContext is the bounded, attributed context blob assembled from
// retrieved documents and handed to the answer generator.
//
// Text is the ordered concatenation of full, untruncated chunk texts,
// each preceded by a provenance header. An empty Text with zero
// TotalDocuments is a valid "no relevant knowledge" result, not an
// error condition.
type RAGContext struct {
	// Text is the formatted context string.
	Text string

	// Sources lists provenance for each included document, in
	// inclusion order (ranked by similarity, descending).
	Sources []SourceAttribution

	// TotalDocuments is the number of documents included.
	TotalDocuments int

	// Languages are the distinct languages detected across sources.
	Languages []Language

	// Length is len(Text).
	Length int
}

// Empty reports whether no documents passed the similarity threshold.
func (c RAGContext) Empty() bool {
	return c.TotalDocuments == 0
}

// RetrievalInspection pairs the assembled RAG context with a raw
// document preview for the same query. Used to debug retrieval quality.
type RetrievalInspection struct {
	// Query is the inspected query text.
	Query string

	// Context is the context the generation path would receive.
	Context RAGContext

	// RawDocumentCount is how many documents the listing path returned.
	RawDocumentCount int

	// RawDocuments is a preview of the listing results (first few).
	RawDocuments []RetrievedDocument
}

package domain

import "time"

// Document represents a stored document with an optional embedding vector.
// It is the canonical representation shared with the ingestion collaborator;
// doclens only ever touches the embedding fields.
type Document struct {
	// ID is the unique identifier for the document, stable for its lifetime.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content. This is the field that gets embedded.
	Content string

	// Embedding is the vector representation for semantic search.
	// Nil until generated. A vector whose length does not match the
	// configured dimension is treated as absent, never as valid.
	Embedding []float32

	// EmbeddingModel identifies the model that produced the vector.
	// Empty iff Embedding is absent. Vectors from different models are
	// never compared against each other.
	EmbeddingModel string

	// EmbeddedAt is when the embedding was last generated.
	// Zero iff Embedding is absent.
	EmbeddedAt time.Time

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// HasEmbedding reports whether the document carries a vector of the given
// dimension. Partial or zero-length vectors count as absent.
func (d *Document) HasEmbedding(dimensions int) bool {
	return len(d.Embedding) > 0 && len(d.Embedding) == dimensions
}

// Preview returns a bounded-length prefix of the content, safe to cut at
// any rune boundary. Used for compact search results and cache entries.
func (d *Document) Preview(maxRunes int) string {
	return TruncateRunes(d.Content, maxRunes)
}

// TruncateRunes deterministically truncates s to at most maxRunes runes.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Callers match them
// with errors.Is; adapters wrap them with detail via fmt.Errorf("%w: ...").
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery indicates an empty or whitespace-only search query.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the configured embedding dimension. The offending vector is rejected;
	// existing cache and store state is never touched.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrProviderUnavailable indicates the embedding provider cannot be
	// reached, is not configured, or timed out.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderAuth indicates the provider rejected our credentials.
	ErrProviderAuth = errors.New("embedding provider authentication failed")

	// ErrProviderRejected indicates the provider rejected the request
	// itself (malformed input, quota exceeded, rate limited).
	ErrProviderRejected = errors.New("embedding provider rejected request")

	// ErrSearchUnavailable indicates semantic search cannot run because the
	// query text could not be embedded. It is distinct from an empty result
	// set: empty results mean "no matches", never "search degraded".
	ErrSearchUnavailable = errors.New("semantic search unavailable")
)

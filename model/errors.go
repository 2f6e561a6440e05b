package model

import "errors"

// Failure taxonomy for the two engines. Recoverable conditions
// (short input, missing index) are signaled as normal return values,
// not as these errors; see the engine contracts.
var (
	// ErrModelUnavailable means a classifier or embedder failed to load
	// or infer. Fatal to the calling operation, never retried internally.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrParseTimeout means document extraction exceeded its bound.
	// Triggers fallback extraction; surfaces only when the fallback
	// recovers nothing.
	ErrParseTimeout = errors.New("document parse timeout")

	// ErrEmptyDocument means extraction produced no text. Indexing must
	// fail rather than build an empty index.
	ErrEmptyDocument = errors.New("document produced no text")
)

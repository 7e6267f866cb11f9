// Package embedding turns text into fixed-dimension dense vectors suitable
// for cosine similarity search. A primary model (typically a multilingual
// sentence-embedding model served over HTTP) is fronted by a content-addressed
// cache; when the model is unavailable the provider degrades to a
// deterministic lexical vector so retrieval keeps working.
package embedding

import (
	"context"
	"errors"
)

var (
	ErrEmptyText         = errors.New("cannot embed empty text")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Vector is a dense embedding.
type Vector []float32

// Model produces embeddings for text. Implementations may block on network
// or model calls and must honor the context deadline.
type Model interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimension() int
}

// Cache stores vectors keyed by content hash. Concurrent writers to the same
// key are acceptable: vectors for identical text are deterministic, so
// last-write-wins is safe.
type Cache interface {
	Get(ctx context.Context, key string) (Vector, bool, error)
	Set(ctx context.Context, key string, vec Vector) error
}

// Package vectorindex implements a flat inner-product index over
// L2-normalized vectors. Inner product of normalized vectors equals cosine
// similarity, so search is exact under cosine while keeping the interface
// general enough to swap in a true ANN structure later.
package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrSnapshotCorrupt   = errors.New("vector index snapshot is corrupt")
	ErrSnapshotMissing   = errors.New("vector index snapshot not found")
)

// Hit is one search result.
type Hit struct {
	RecordID   string
	Similarity float64
}

// Index holds a dense vector matrix and a parallel record-id list. The two
// must stay the same length; a mismatch is corruption and callers rebuild
// from the corpus instead of repairing. An Index is immutable once shared:
// writers Clone, mutate the clone and swap the pointer readers use.
type Index struct {
	dim     int
	vectors [][]float32
	ids     []string
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int {
	return len(x.ids)
}

// Dimension returns the vector dimension.
func (x *Index) Dimension() int {
	return x.dim
}

// Add appends a vector for the given record id. The vector is copied and
// L2-normalized so later inner products are cosine similarities.
func (x *Index) Add(id string, vec []float32) error {
	if len(vec) != x.dim {
		return fmt.Errorf("vector for %s has %d dimensions, index wants %d: %w",
			id, len(vec), x.dim, ErrDimensionMismatch)
	}

	normalized := make([]float32, len(vec))
	copy(normalized, vec)
	normalizeL2(normalized)

	x.vectors = append(x.vectors, normalized)
	x.ids = append(x.ids, id)
	return nil
}

// Clone returns a copy sharing the (immutable) vector rows but safe to Add to
// while readers keep using the original.
func (x *Index) Clone() *Index {
	return &Index{
		dim:     x.dim,
		vectors: append([][]float32(nil), x.vectors...),
		ids:     append([]string(nil), x.ids...),
	}
}

// Search returns up to topK entries ordered by descending cosine similarity.
// Ties keep insertion order. An empty index yields an empty slice, never an
// error.
func (x *Index) Search(query []float32, topK int) ([]Hit, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("query has %d dimensions, index wants %d: %w",
			len(query), x.dim, ErrDimensionMismatch)
	}
	if topK <= 0 || len(x.vectors) == 0 {
		return []Hit{}, nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeL2(normalized)

	hits := make([]Hit, 0, len(x.vectors))
	for i, vec := range x.vectors {
		hits = append(hits, Hit{
			RecordID:   x.ids[i],
			Similarity: dot(normalized, vec),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalizeL2(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

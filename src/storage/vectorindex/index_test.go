package vectorindex_test

import (
	"errors"
	"math"
	"testing"

	"maarifa/src/storage/vectorindex"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	idx := vectorindex.New(3)
	vectors := map[string][]float32{
		"x-axis":   {1, 0, 0},
		"y-axis":   {0, 1, 0},
		"diagonal": {1, 1, 0},
	}
	for id, vec := range vectors {
		if err := idx.Add(id, vec); err != nil {
			t.Fatalf("Add(%s) error = %v", id, err)
		}
	}

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("Search() returned %d hits, want 3", len(hits))
	}

	if hits[0].RecordID != "x-axis" {
		t.Errorf("top hit = %s, want x-axis", hits[0].RecordID)
	}
	if math.Abs(hits[0].Similarity-1) > 1e-6 {
		t.Errorf("top similarity = %v, want 1", hits[0].Similarity)
	}
	if hits[1].RecordID != "diagonal" {
		t.Errorf("second hit = %s, want diagonal", hits[1].RecordID)
	}
	if math.Abs(hits[1].Similarity-1/math.Sqrt2) > 1e-6 {
		t.Errorf("second similarity = %v, want %v", hits[1].Similarity, 1/math.Sqrt2)
	}
	if math.Abs(hits[2].Similarity) > 1e-6 {
		t.Errorf("orthogonal similarity = %v, want 0", hits[2].Similarity)
	}

	for _, h := range hits {
		if h.Similarity < -1-1e-6 || h.Similarity > 1+1e-6 {
			t.Errorf("similarity %v outside [-1, 1]", h.Similarity)
		}
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	idx := vectorindex.New(2)
	// Same vector twice: identical similarity, insertion order must hold.
	if err := idx.Add("first", []float32{2, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := idx.Add("second", []float32{4, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	hits, err := idx.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if hits[0].RecordID != "first" || hits[1].RecordID != "second" {
		t.Errorf("tie order = [%s %s], want [first second]", hits[0].RecordID, hits[1].RecordID)
	}
}

func TestSearchTopKTruncates(t *testing.T) {
	idx := vectorindex.New(2)
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := idx.Add(id, []float32{1, 1}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	hits, err := idx.Search([]float32{1, 1}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Search() returned %d hits, want 2", len(hits))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := vectorindex.New(2)
	hits, err := idx.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() returned %d hits, want 0", len(hits))
	}
}

func TestDimensionMismatch(t *testing.T) {
	idx := vectorindex.New(3)

	if err := idx.Add("bad", []float32{1, 0}); !errors.Is(err, vectorindex.ErrDimensionMismatch) {
		t.Errorf("Add() error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := idx.Search([]float32{1, 0}, 1); !errors.Is(err, vectorindex.ErrDimensionMismatch) {
		t.Errorf("Search() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestCloneIsolatesWrites(t *testing.T) {
	idx := vectorindex.New(2)
	if err := idx.Add("orig", []float32{1, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	clone := idx.Clone()
	if err := clone.Add("extra", []float32{0, 1}); err != nil {
		t.Fatalf("Add() on clone error = %v", err)
	}

	if idx.Len() != 1 {
		t.Errorf("original Len() = %d after clone write, want 1", idx.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone Len() = %d, want 2", clone.Len())
	}
}

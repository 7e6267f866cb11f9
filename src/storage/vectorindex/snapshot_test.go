package vectorindex_test

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"maarifa/src/storage/vectorindex"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	idx := vectorindex.New(3)
	if err := idx.Add("q1", []float32{1, 0, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := idx.Add("q2", []float32{0, 1, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := idx.SaveSnapshot(dir); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := vectorindex.LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded Len() = %d, want 2", loaded.Len())
	}
	if loaded.Dimension() != 3 {
		t.Fatalf("loaded Dimension() = %d, want 3", loaded.Dimension())
	}

	hits, err := loaded.Search([]float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() on loaded index error = %v", err)
	}
	if hits[0].RecordID != "q1" || math.Abs(hits[0].Similarity-1) > 1e-6 {
		t.Errorf("loaded top hit = %+v, want q1 at similarity 1", hits[0])
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	_, err := vectorindex.LoadSnapshot(t.TempDir())
	if !errors.Is(err, vectorindex.ErrSnapshotMissing) {
		t.Errorf("LoadSnapshot() error = %v, want ErrSnapshotMissing", err)
	}
}

func TestLoadSnapshotCorrupt(t *testing.T) {
	saveValid := func(t *testing.T, dir string) {
		idx := vectorindex.New(2)
		if err := idx.Add("q1", []float32{1, 0}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := idx.SaveSnapshot(dir); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		corrupt func(t *testing.T, dir string)
	}{
		{
			name: "garbage vector file",
			corrupt: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, vectorindex.VectorsFile), []byte("not a snapshot"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "truncated vector file",
			corrupt: func(t *testing.T, dir string) {
				path := filepath.Join(dir, vectorindex.VectorsFile)
				raw, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, raw[:len(raw)-3], 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "id list out of step with vectors",
			corrupt: func(t *testing.T, dir string) {
				ids, err := json.Marshal([]string{"q1", "phantom"})
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, vectorindex.IDsFile), ids, 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "unparseable id list",
			corrupt: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, vectorindex.IDsFile), []byte("{"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			saveValid(t, dir)
			tt.corrupt(t, dir)

			if _, err := vectorindex.LoadSnapshot(dir); !errors.Is(err, vectorindex.ErrSnapshotCorrupt) {
				t.Errorf("LoadSnapshot() error = %v, want ErrSnapshotCorrupt", err)
			}

			// Rebuilding and saving over the corrupt files recovers.
			saveValid(t, dir)
			loaded, err := vectorindex.LoadSnapshot(dir)
			if err != nil {
				t.Fatalf("LoadSnapshot() after re-save error = %v", err)
			}
			if loaded.Len() != 1 {
				t.Errorf("recovered Len() = %d, want 1", loaded.Len())
			}
		})
	}
}

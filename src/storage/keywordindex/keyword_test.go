package keywordindex_test

import (
	"fmt"
	"testing"

	"maarifa/src/storage/keywordindex"
)

func TestLookupIntersection(t *testing.T) {
	idx := keywordindex.New()
	idx.Add("q1", []string{"fajr", "prayer", "time"})
	idx.Add("q2", []string{"fajr", "fast"})
	idx.Add("q3", []string{"prayer", "time"})

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "single token",
			tokens: []string{"fajr"},
			want:   []string{"q1", "q2"},
		},
		{
			name:   "intersection of two tokens",
			tokens: []string{"fajr", "prayer"},
			want:   []string{"q1"},
		},
		{
			name:   "unknown token empties the result",
			tokens: []string{"fajr", "zakat"},
			want:   nil,
		},
		{
			name:   "no tokens match nothing",
			tokens: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Lookup(tt.tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("Lookup() returned %d ids, want %d", len(got), len(tt.want))
			}
			for _, id := range tt.want {
				if _, ok := got[id]; !ok {
					t.Errorf("Lookup() missing id %s", id)
				}
			}
		})
	}
}

func TestAddSkipsShortTokens(t *testing.T) {
	idx := keywordindex.New()
	idx.Add("q1", []string{"the", "of", "fajr"})

	if got := idx.TokenCount(); got != 1 {
		t.Errorf("TokenCount() = %d, want 1 (short tokens skipped)", got)
	}
	if matched := idx.Lookup([]string{"the"}); len(matched) != 0 {
		t.Errorf("Lookup(short token) matched %d ids, want 0", len(matched))
	}
}

func TestAddCapsKeywordsPerRecord(t *testing.T) {
	tokens := make([]string, 30)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("keyword%02d", i)
	}

	idx := keywordindex.New()
	idx.Add("q1", tokens)

	if got := idx.TokenCount(); got != 20 {
		t.Errorf("TokenCount() = %d, want 20", got)
	}
	if matched := idx.Lookup([]string{"keyword25"}); len(matched) != 0 {
		t.Errorf("Lookup(token beyond cap) matched %d ids, want 0", len(matched))
	}
}

func TestCloneIsolatesWrites(t *testing.T) {
	idx := keywordindex.New()
	idx.Add("q1", []string{"fajr"})

	clone := idx.Clone()
	clone.Add("q2", []string{"fajr", "zakat"})

	if matched := idx.Lookup([]string{"fajr"}); len(matched) != 1 {
		t.Errorf("original Lookup() matched %d ids after clone write, want 1", len(matched))
	}
	if matched := clone.Lookup([]string{"fajr"}); len(matched) != 2 {
		t.Errorf("clone Lookup() matched %d ids, want 2", len(matched))
	}
}

// Package keywordindex maintains an inverted token index over record
// question texts for precision-first keyword retrieval.
package keywordindex

// Per record only the first maxKeywordsPerRecord tokens longer than
// minKeywordLength runes are indexed; the index deliberately trades recall
// for precision and is one retrieval signal among several.
const (
	minKeywordLength     = 4
	maxKeywordsPerRecord = 20
)

// Index maps normalized tokens to the set of record ids containing them.
// An Index is immutable once shared: writers Clone, mutate and swap.
type Index struct {
	postings map[string]map[string]struct{}
}

// New creates an empty keyword index.
func New() *Index {
	return &Index{postings: make(map[string]map[string]struct{})}
}

// Add indexes the normalized question tokens of one record.
func (x *Index) Add(recordID string, tokens []string) {
	kept := 0
	for _, tok := range tokens {
		if len([]rune(tok)) < minKeywordLength {
			continue
		}
		set, ok := x.postings[tok]
		if !ok {
			set = make(map[string]struct{})
			x.postings[tok] = set
		}
		set[recordID] = struct{}{}

		kept++
		if kept >= maxKeywordsPerRecord {
			break
		}
	}
}

// Lookup returns the record ids containing every given token. Zero tokens
// yield an empty set, never "match everything".
func (x *Index) Lookup(tokens []string) map[string]struct{} {
	if len(tokens) == 0 {
		return map[string]struct{}{}
	}

	result, ok := x.postings[tokens[0]]
	if !ok {
		return map[string]struct{}{}
	}

	// Copy before intersecting so postings stay untouched.
	matched := make(map[string]struct{}, len(result))
	for id := range result {
		matched[id] = struct{}{}
	}

	for _, tok := range tokens[1:] {
		set, ok := x.postings[tok]
		if !ok {
			return map[string]struct{}{}
		}
		for id := range matched {
			if _, ok := set[id]; !ok {
				delete(matched, id)
			}
		}
		if len(matched) == 0 {
			return matched
		}
	}

	return matched
}

// TokenCount returns the number of distinct indexed tokens.
func (x *Index) TokenCount() int {
	return len(x.postings)
}

// Clone returns a copy safe to Add to while readers use the original.
func (x *Index) Clone() *Index {
	clone := New()
	for tok, set := range x.postings {
		copied := make(map[string]struct{}, len(set))
		for id := range set {
			copied[id] = struct{}{}
		}
		clone.postings[tok] = copied
	}
	return clone
}

package knowledge

import (
	"context"
	"strings"

	"maarifa/src/core/textnorm"
)

// searchKeyword scores records whose indexed question tokens contain every
// query token, using Jaccard overlap between the two token sets. Precision
// over recall: a single unmatched query token empties the result.
func (s *Service) searchKeyword(snap *indexSnapshot, qdoc textnorm.Document) []candidate {
	matched := snap.keywords.Lookup(qdoc.Tokens)
	if len(matched) == 0 {
		return nil
	}

	querySet := make(map[string]struct{}, len(qdoc.Tokens))
	for _, tok := range qdoc.Tokens {
		querySet[tok] = struct{}{}
	}

	candidates := make([]candidate, 0, len(matched))
	for _, id := range snap.order {
		if _, ok := matched[id]; !ok {
			continue
		}
		candidates = append(candidates, candidate{
			recordID: id,
			score:    jaccard(querySet, snap.tokens[id]),
			method:   MethodKeyword,
		})
	}
	return candidates
}

func jaccard(querySet map[string]struct{}, recordTokens []string) float64 {
	recordSet := make(map[string]struct{}, len(recordTokens))
	for _, tok := range recordTokens {
		recordSet[tok] = struct{}{}
	}

	overlap := 0
	for tok := range querySet {
		if _, ok := recordSet[tok]; ok {
			overlap++
		}
	}

	union := len(querySet) + len(recordSet) - overlap
	if union == 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}

// searchEmbedding embeds the query and runs a cosine search against the
// vector index. Hits below the minimum similarity threshold are discarded
// outright, not down-ranked. When the embedding came from the lexical
// fallback the surviving scores are multiplied by the degradation penalty so
// degraded matches never outrank equally relevant real ones.
func (s *Service) searchEmbedding(ctx context.Context, snap *indexSnapshot, query string, lang textnorm.Language, topK int) ([]candidate, bool, error) {
	vec, degraded, err := s.embedder.Embed(ctx, query, lang)
	if err != nil {
		return nil, false, err
	}

	// Fetch extra hits so threshold filtering can still fill topK.
	hits, err := snap.vectors.Search(vec, topK*2)
	if err != nil {
		return nil, degraded, err
	}

	penalty := 1.0
	if degraded {
		penalty = s.cfg.DegradedPenalty
	}

	candidates := make([]candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < s.cfg.MinSimilarity {
			continue
		}
		candidates = append(candidates, candidate{
			recordID: hit.RecordID,
			score:    hit.Similarity * penalty,
			method:   MethodEmbedding,
		})
		if len(candidates) >= topK {
			break
		}
	}
	return candidates, degraded, nil
}

// searchFulltext scores records by raw term occurrences in the lowercased
// question and category texts, normalized by question word count. It catches
// partial words and category matches the token-based strategies miss, and is
// deliberately language-agnostic: substring matching works for both scripts.
func (s *Service) searchFulltext(snap *indexSnapshot, query string) []candidate {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var candidates []candidate
	for _, id := range snap.order {
		rec := snap.records[id]
		question := strings.ToLower(rec.QuestionText)
		category := strings.ToLower(rec.Category)

		occurrences := 0
		for _, term := range terms {
			occurrences += strings.Count(question, term)
			occurrences += strings.Count(category, term)
		}
		if occurrences == 0 {
			continue
		}

		words := len(strings.Fields(rec.QuestionText))
		if words == 0 {
			continue
		}
		candidates = append(candidates, candidate{
			recordID: id,
			score:    float64(occurrences) / float64(words),
			method:   MethodFulltext,
		})
	}
	return candidates
}

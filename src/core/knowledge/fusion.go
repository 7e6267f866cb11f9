package knowledge

import (
	"sort"
	"strings"
)

// Retrieval method tags reported in results and SearchResponse.MethodsUsed.
const (
	MethodKeyword   = "keyword"
	MethodEmbedding = "embedding"
	MethodFulltext  = "fulltext"
)

// candidate is one scored record produced by a single retrieval strategy.
type candidate struct {
	recordID string
	score    float64
	method   string
}

// methodRank fixes the reported method order; strategies run concurrently so
// arrival order is not deterministic.
var methodRank = map[string]int{
	MethodKeyword:   0,
	MethodEmbedding: 1,
	MethodFulltext:  2,
}

// sourceFactor scales scores by provenance reliability. Sources are matched
// by substring against the lookup table; unknown sources score neutral.
type sourceFactor struct {
	substring string
	factor    float64
}

var sourceFactors = []sourceFactor{
	{"dar al-ifta", 1.15},
	{"islamqa", 1.10},
}

func reliabilityFactor(sourceName string) float64 {
	lower := strings.ToLower(sourceName)
	for _, sf := range sourceFactors {
		if strings.Contains(lower, sf.substring) {
			return sf.factor
		}
	}
	return 1.0
}

// lengthFactor mildly rewards answers of verbosity comparable to the query:
// 0.8 + 0.4 * min/max word counts, in [0.8, 1.2].
func lengthFactor(queryWords, answerWords int) float64 {
	if queryWords == 0 || answerWords == 0 {
		return 0.8
	}
	ratio := float64(min(queryWords, answerWords)) / float64(max(queryWords, answerWords))
	return 0.8 + 0.4*ratio
}

// fuse merges candidates from all strategies into one ranked list. Records
// matched by several strategies keep the maximum score and accumulate method
// tags; the merged score is then scaled by source reliability and answer
// length similarity. Output is sorted by final score descending with ties
// broken by record id, deduplicated, and truncated to limit.
func fuse(candidates []candidate, records map[string]Record, queryWords, limit int) []ScoredRecord {
	type merged struct {
		score   float64
		methods []string
	}

	byID := make(map[string]*merged)
	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		m, ok := byID[c.recordID]
		if !ok {
			m = &merged{}
			byID[c.recordID] = m
			order = append(order, c.recordID)
		}
		if c.score > m.score {
			m.score = c.score
		}
		if !containsString(m.methods, c.method) {
			m.methods = append(m.methods, c.method)
		}
	}

	results := make([]ScoredRecord, 0, len(byID))
	for _, id := range order {
		rec, ok := records[id]
		if !ok {
			continue
		}
		m := byID[id]
		sort.Slice(m.methods, func(i, j int) bool {
			return methodRank[m.methods[i]] < methodRank[m.methods[j]]
		})

		answerWords := len(strings.Fields(rec.AnswerText))
		final := m.score * reliabilityFactor(rec.SourceName) * lengthFactor(queryWords, answerWords)

		results = append(results, ScoredRecord{
			RecordID:    rec.ID,
			Question:    rec.QuestionText,
			Answer:      rec.AnswerText,
			Score:       final,
			Methods:     m.methods,
			SourceName:  rec.SourceName,
			SourceURL:   rec.SourceURL,
			ScholarName: rec.ScholarName,
			Category:    rec.Category,
			Language:    rec.Language,
			Confidence:  rec.ConfidenceScore,
			IsVerified:  rec.IsVerified,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].RecordID < results[j].RecordID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

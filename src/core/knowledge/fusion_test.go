package knowledge

import (
	"math"
	"reflect"
	"testing"
)

func TestReliabilityFactor(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"Dar al-Ifta al-Misriyyah", 1.15},
		{"IslamQA", 1.10},
		{"Some Local Mosque", 1.0},
		{"", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := reliabilityFactor(tt.source); got != tt.want {
				t.Errorf("reliabilityFactor(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestLengthFactor(t *testing.T) {
	tests := []struct {
		name        string
		queryWords  int
		answerWords int
		want        float64
	}{
		{"equal lengths", 10, 10, 1.2},
		{"answer twice as long", 5, 10, 1.0},
		{"answer much longer", 5, 100, 0.82},
		{"empty answer", 5, 0, 0.8},
		{"empty query", 0, 10, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lengthFactor(tt.queryWords, tt.answerWords)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("lengthFactor(%d, %d) = %v, want %v", tt.queryWords, tt.answerWords, got, tt.want)
			}
		})
	}
}

func TestFuseDeduplicatesWithMaxScore(t *testing.T) {
	records := map[string]Record{
		"q1": {ID: "q1", QuestionText: "question one", AnswerText: "three word answer"},
	}
	candidates := []candidate{
		{recordID: "q1", score: 0.5, method: MethodKeyword},
		{recordID: "q1", score: 0.8, method: MethodEmbedding},
		{recordID: "q1", score: 0.3, method: MethodFulltext},
	}

	results := fuse(candidates, records, 3, 10)
	if len(results) != 1 {
		t.Fatalf("fuse() returned %d results, want 1", len(results))
	}

	// Max score 0.8, neutral source, equal word counts: 0.8 * 1.0 * 1.2.
	want := 0.8 * 1.2
	if math.Abs(results[0].Score-want) > 1e-9 {
		t.Errorf("fused score = %v, want %v", results[0].Score, want)
	}

	wantMethods := []string{MethodKeyword, MethodEmbedding, MethodFulltext}
	if !reflect.DeepEqual(results[0].Methods, wantMethods) {
		t.Errorf("fused methods = %v, want %v", results[0].Methods, wantMethods)
	}
}

func TestFuseAppliesSourceFactor(t *testing.T) {
	records := map[string]Record{
		"plain":   {ID: "plain", QuestionText: "q", AnswerText: "one two three", SourceName: "blog"},
		"trusted": {ID: "trusted", QuestionText: "q", AnswerText: "one two three", SourceName: "IslamQA"},
	}
	candidates := []candidate{
		{recordID: "plain", score: 0.6, method: MethodKeyword},
		{recordID: "trusted", score: 0.6, method: MethodKeyword},
	}

	results := fuse(candidates, records, 3, 10)
	if len(results) != 2 {
		t.Fatalf("fuse() returned %d results, want 2", len(results))
	}
	if results[0].RecordID != "trusted" {
		t.Errorf("top result = %s, want trusted (source factor applied)", results[0].RecordID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("trusted score %v not above plain score %v", results[0].Score, results[1].Score)
	}
}

func TestFuseBreaksTiesByRecordID(t *testing.T) {
	records := map[string]Record{
		"b": {ID: "b", QuestionText: "q", AnswerText: "same length answer"},
		"a": {ID: "a", QuestionText: "q", AnswerText: "same length answer"},
	}
	candidates := []candidate{
		{recordID: "b", score: 0.5, method: MethodKeyword},
		{recordID: "a", score: 0.5, method: MethodKeyword},
	}

	results := fuse(candidates, records, 3, 10)
	if results[0].RecordID != "a" || results[1].RecordID != "b" {
		t.Errorf("tie order = [%s %s], want [a b]", results[0].RecordID, results[1].RecordID)
	}
}

func TestFuseTruncatesToLimit(t *testing.T) {
	records := map[string]Record{}
	var candidates []candidate
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		records[id] = Record{ID: id, QuestionText: "q", AnswerText: "short answer text"}
		candidates = append(candidates, candidate{recordID: id, score: 0.5, method: MethodFulltext})
	}

	results := fuse(candidates, records, 3, 2)
	if len(results) != 2 {
		t.Errorf("fuse() returned %d results, want 2", len(results))
	}
}

func TestFuseSkipsUnhydratedRecords(t *testing.T) {
	records := map[string]Record{
		"known": {ID: "known", QuestionText: "q", AnswerText: "answer text here"},
	}
	candidates := []candidate{
		{recordID: "known", score: 0.5, method: MethodKeyword},
		{recordID: "gone", score: 0.9, method: MethodEmbedding},
	}

	results := fuse(candidates, records, 3, 10)
	if len(results) != 1 || results[0].RecordID != "known" {
		t.Errorf("fuse() = %v results, want only the hydrated record", len(results))
	}
}

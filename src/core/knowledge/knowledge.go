// Package knowledge implements the retrieval engine over a corpus of
// question/answer records: multi-strategy search, result fusion, index
// lifecycle and suggestions.
package knowledge

import (
	"context"
	"errors"
	"fmt"

	"maarifa/src/core/textnorm"
)

var (
	ErrRecordInvalid  = errors.New("record failed validation")
	ErrRecordNotFound = errors.New("record not found")
	ErrSearchFailed   = errors.New("all retrieval strategies failed")
)

// Records shorter than these bounds carry too little signal to index.
const (
	MinQuestionLength = 10
	MinAnswerLength   = 20
)

// Record is one question+best-answer unit. Records are owned by the external
// corpus and read-only here; all index state must be regenerable from them.
type Record struct {
	ID              string            `json:"id"`
	QuestionText    string            `json:"question"`
	AnswerText      string            `json:"answer"`
	Language        textnorm.Language `json:"language"`
	Category        string            `json:"category,omitempty"`
	ScholarName     string            `json:"scholarName,omitempty"`
	SourceName      string            `json:"sourceName,omitempty"`
	SourceURL       string            `json:"sourceURL,omitempty"`
	ConfidenceScore float64           `json:"confidenceScore"`
	IsVerified      bool              `json:"isVerified"`
}

// Validate rejects records too short to index. Invalid records are skipped
// during indexing and never surface to a searcher.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("missing record id: %w", ErrRecordInvalid)
	}
	if len(r.QuestionText) < MinQuestionLength {
		return fmt.Errorf("question of record %s is shorter than %d characters: %w",
			r.ID, MinQuestionLength, ErrRecordInvalid)
	}
	if len(r.AnswerText) < MinAnswerLength {
		return fmt.Errorf("answer of record %s is shorter than %d characters: %w",
			r.ID, MinAnswerLength, ErrRecordInvalid)
	}
	return nil
}

// ResolvedLanguage returns the record language, falling back to detection
// when the corpus left it unset.
func (r Record) ResolvedLanguage() textnorm.Language {
	if r.Language == textnorm.LanguageEnglish || r.Language == textnorm.LanguageArabic {
		return r.Language
	}
	return textnorm.DetectLanguage(r.QuestionText)
}

// ScoredRecord is one ranked search result.
type ScoredRecord struct {
	RecordID    string            `json:"recordId"`
	Question    string            `json:"question"`
	Answer      string            `json:"answer"`
	Score       float64           `json:"score"`
	Methods     []string          `json:"methods"`
	SourceName  string            `json:"sourceName,omitempty"`
	SourceURL   string            `json:"sourceURL,omitempty"`
	ScholarName string            `json:"scholarName,omitempty"`
	Category    string            `json:"category,omitempty"`
	Language    textnorm.Language `json:"language"`
	Confidence  float64           `json:"confidence"`
	IsVerified  bool              `json:"isVerified"`
}

// SearchFilters narrows results by record metadata. Zero values mean "no
// constraint".
type SearchFilters struct {
	Category      string  `json:"category,omitempty"`
	Scholar       string  `json:"scholar,omitempty"`
	Source        string  `json:"source,omitempty"`
	MinConfidence float64 `json:"minConfidence,omitempty"`
}

// SearchRequest is one search call. Language defaults to auto-detection;
// Limit defaults to the service maximum.
type SearchRequest struct {
	Query         string
	Language      textnorm.Language
	Filters       SearchFilters
	UseEmbeddings bool
	Limit         int
}

// SearchResponse is always well-formed, possibly with zero results. Degraded
// reports that the embedding signal came from the lexical fallback.
type SearchResponse struct {
	Query        string            `json:"query"`
	Language     textnorm.Language `json:"language"`
	Results      []ScoredRecord    `json:"results"`
	TotalResults int               `json:"totalResults"`
	MethodsUsed  []string          `json:"methodsUsed"`
	Degraded     bool              `json:"degraded,omitempty"`
}

// Corpus is the external provider of records. The retrieval engine never
// writes to it; ListAllRecords feeds full rebuilds and GetRecord hydrates
// results whose record left the in-memory snapshot.
type Corpus interface {
	ListAllRecords(ctx context.Context) ([]Record, error)
	GetRecord(ctx context.Context, id string) (*Record, error)
}

// SearchService defines the interface for query operations
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Suggest(ctx context.Context, partial string, lang textnorm.Language) ([]string, error)
}

// IndexService defines the interface for index maintenance operations
type IndexService interface {
	Rebuild(ctx context.Context, force bool) error
	Upsert(ctx context.Context, record Record) error
}

// SystemService defines the interface for system operations
type SystemService interface {
	CheckHealth(ctx context.Context) (*HealthStatus, error)
}

// ComponentStatus represents the status of system components
type ComponentStatus string

const (
	StatusUp   ComponentStatus = "up"
	StatusDown ComponentStatus = "down"
)

// HealthStatus represents system health status
type HealthStatus struct {
	Status     string `json:"status"`
	IndexState string `json:"indexState"`
	Records    int    `json:"records"`
	Components struct {
		Corpus ComponentStatus `json:"corpus"`
		Index  ComponentStatus `json:"index"`
	} `json:"components"`
}

// IndexState tracks the index lifecycle. Searches during StateBuilding keep
// serving the last ready snapshot.
type IndexState int32

const (
	StateEmpty IndexState = iota
	StateBuilding
	StateReady
)

func (s IndexState) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	default:
		return "empty"
	}
}

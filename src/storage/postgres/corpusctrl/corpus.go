// Package corpusctrl exposes the question/answer database as the read-only
// corpus the retrieval engine consumes.
package corpusctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maarifa/src/core/knowledge"
	"maarifa/src/core/textnorm"
)

type Question struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	QuestionText string    `gorm:"not null" json:"question_text"`
	Language     string    `json:"language"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Answer struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	QuestionID      string    `gorm:"not null;index" json:"question_id"`
	AnswerText      string    `gorm:"not null" json:"answer_text"`
	SourceName      string    `json:"source_name"`
	SourceURL       string    `json:"source_url"`
	ScholarName     string    `json:"scholar_name"`
	ConfidenceScore float64   `json:"confidence_score"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CorpusService reads records from PostgreSQL. Each record pairs a question
// with its best (highest-confidence) answer.
type CorpusService struct {
	db *gorm.DB
}

var _ knowledge.Corpus = (*CorpusService)(nil)

func NewCorpusService(db *gorm.DB) *CorpusService {
	return &CorpusService{db: db}
}

// ListAllRecords returns every question joined with its best answer.
// Questions without any answer are skipped: a record needs both halves.
func (s *CorpusService) ListAllRecords(ctx context.Context) ([]knowledge.Record, error) {
	var questions []Question
	result := s.db.WithContext(ctx).Order("id").Find(&questions)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list questions: %w", result.Error)
	}

	var answers []Answer
	result = s.db.WithContext(ctx).Order("confidence_score DESC").Find(&answers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list answers: %w", result.Error)
	}

	// Answers are ordered by confidence, so the first one seen per question
	// is the best.
	best := make(map[string]Answer, len(questions))
	for _, a := range answers {
		if _, ok := best[a.QuestionID]; !ok {
			best[a.QuestionID] = a
		}
	}

	records := make([]knowledge.Record, 0, len(questions))
	for _, q := range questions {
		a, ok := best[q.ID]
		if !ok {
			continue
		}
		records = append(records, toRecord(q, a))
	}
	return records, nil
}

// GetRecord returns one record by question id, or nil when it does not
// exist.
func (s *CorpusService) GetRecord(ctx context.Context, id string) (*knowledge.Record, error) {
	var question Question
	result := s.db.WithContext(ctx).First(&question, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", result.Error)
	}

	var answer Answer
	result = s.db.WithContext(ctx).
		Where("question_id = ?", id).
		Order("confidence_score DESC").
		First(&answer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get best answer: %w", result.Error)
	}

	record := toRecord(question, answer)
	return &record, nil
}

func toRecord(q Question, a Answer) knowledge.Record {
	lang := textnorm.Language(q.Language)
	if lang != textnorm.LanguageEnglish && lang != textnorm.LanguageArabic {
		lang = textnorm.DetectLanguage(q.QuestionText)
	}

	return knowledge.Record{
		ID:              q.ID,
		QuestionText:    q.QuestionText,
		AnswerText:      a.AnswerText,
		Language:        lang,
		Category:        q.Category,
		ScholarName:     a.ScholarName,
		SourceName:      a.SourceName,
		SourceURL:       a.SourceURL,
		ConfidenceScore: a.ConfidenceScore,
		IsVerified:      a.IsVerified,
	}
}

// Package interactionctrl records search interactions for later analysis.
package interactionctrl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Interaction is one logged search: who asked, what they asked and which
// records matched.
type Interaction struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"index" json:"session_id"`
	Query      string    `gorm:"not null" json:"query"`
	Language   string    `json:"language"`
	MatchedIDs string    `json:"matched_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

type InteractionService struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewInteractionService(db *gorm.DB) (*InteractionService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &InteractionService{db: db, node: node}, nil
}

// Record persists one interaction. Matched record ids are stored as a
// comma-separated list.
func (s *InteractionService) Record(ctx context.Context, sessionID, query, language string, matchedIDs []string) error {
	interaction := Interaction{
		ID:         s.node.Generate().Int64(),
		SessionID:  sessionID,
		Query:      query,
		Language:   language,
		MatchedIDs: strings.Join(matchedIDs, ","),
		CreatedAt:  time.Now(),
	}
	if result := s.db.WithContext(ctx).Create(&interaction); result.Error != nil {
		return fmt.Errorf("failed to record interaction: %w", result.Error)
	}
	return nil
}

// RecentBySession returns the latest interactions for one session, newest
// first.
func (s *InteractionService) RecentBySession(ctx context.Context, sessionID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var interactions []Interaction
	result := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", result.Error)
	}
	return interactions, nil
}

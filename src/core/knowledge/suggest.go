package knowledge

import (
	"context"
	"strings"

	"maarifa/src/core/textnorm"
)

// Suggest returns question texts containing the partial input, for
// autocomplete. Matching is a case-insensitive substring scan over the
// current snapshot; partials shorter than three runes return nothing.
func (s *Service) Suggest(ctx context.Context, partial string, lang textnorm.Language) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if len([]rune(partial)) < minSuggestLength {
		return []string{}, nil
	}

	snap := s.snapshot.Load()
	if snap == nil {
		if err := s.Rebuild(ctx, false); err != nil {
			return nil, err
		}
		snap = s.snapshot.Load()
	}

	needle := strings.ToLower(partial)
	suggestions := make([]string, 0, s.cfg.SuggestLimit)
	for _, id := range snap.order {
		rec := snap.records[id]
		if lang == textnorm.LanguageEnglish || lang == textnorm.LanguageArabic {
			if rec.ResolvedLanguage() != lang {
				continue
			}
		}
		if !strings.Contains(strings.ToLower(rec.QuestionText), needle) {
			continue
		}
		suggestions = append(suggestions, rec.QuestionText)
		if len(suggestions) >= s.cfg.SuggestLimit {
			break
		}
	}
	return suggestions, nil
}

package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"maarifa/src/core/textnorm"
	"maarifa/src/log"
)

// DefaultMaxInputChars caps the text handed to the model. Longer inputs are
// split and only the head chunk is embedded; question texts almost never get
// near this.
const DefaultMaxInputChars = 2048

// Provider computes embeddings with caching and a lexical fallback.
type Provider struct {
	model         Model
	cache         Cache
	dim           int
	maxInputChars int
}

// NewProvider wires a model and a cache together. A nil cache disables
// caching; a nil model forces permanent degraded mode (useful in tests and
// when no model endpoint is configured).
func NewProvider(model Model, cache Cache, dim int) (*Provider, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	if model != nil && model.Dimension() != dim {
		return nil, fmt.Errorf("model dimension %d does not match configured dimension %d: %w",
			model.Dimension(), dim, ErrDimensionMismatch)
	}

	return &Provider{
		model:         model,
		cache:         cache,
		dim:           dim,
		maxInputChars: DefaultMaxInputChars,
	}, nil
}

// Dimension returns the fixed vector dimension.
func (p *Provider) Dimension() int {
	return p.dim
}

// Embed returns the vector for text, plus a degraded flag that is true when
// the lexical fallback produced it. The flag lets downstream ranking penalize
// degraded scores instead of treating them as real embeddings.
//
// The cache is consulted first; model failures and context deadlines fall
// back to the lexical vector rather than failing the call. Only empty
// normalized input is an error.
func (p *Provider) Embed(ctx context.Context, text string, lang textnorm.Language) (Vector, bool, error) {
	doc := textnorm.Normalize(text, lang)
	if len(doc.Tokens) == 0 {
		return nil, false, ErrEmptyText
	}

	key := cacheKey(text)
	if p.cache != nil {
		vec, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			log.Error(err, "embedding cache lookup failed", "key", key)
		} else if ok {
			log.Debug("embedding cache hit", "key", key)
			return vec, false, nil
		} else {
			log.Debug("embedding cache miss", "key", key)
		}
	}

	if p.model == nil {
		log.Info("no embedding model configured, using lexical fallback")
		return Lexical(doc.Tokens, p.dim), true, nil
	}

	input, err := p.capInput(doc.CleanedText)
	if err != nil {
		log.Error(err, "failed to split embedding input, truncating")
		input = truncateRunes(doc.CleanedText, p.maxInputChars)
	}

	vec, err := p.model.Embed(ctx, input)
	if err != nil {
		log.Error(err, "embedding model call failed, degrading to lexical vector")
		return Lexical(doc.Tokens, p.dim), true, nil
	}
	if len(vec) != p.dim {
		log.Error(ErrDimensionMismatch, "unexpected embedding size, degrading to lexical vector",
			"got", len(vec), "want", p.dim)
		return Lexical(doc.Tokens, p.dim), true, nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, vec); err != nil {
			log.Error(err, "failed to cache embedding", "key", key)
		}
	}

	return vec, false, nil
}

// capInput bounds the model input length, splitting over-long text and
// keeping the head chunk.
func (p *Provider) capInput(text string) (string, error) {
	if len(text) <= p.maxInputChars {
		return text, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.maxInputChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return "", fmt.Errorf("failed to split text: %w", err)
	}
	if len(chunks) == 0 {
		return text, nil
	}
	return chunks[0], nil
}

// truncateRunes shortens text to at most max runes. Slicing by bytes could
// split a multi-byte rune and hand invalid UTF-8 to the model.
func truncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func cacheKey(text string) string {
	return fmt.Sprintf("embedding:%x", sha256.Sum256([]byte(text)))
}

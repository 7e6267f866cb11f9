package ollama

import (
	"context"

	"maarifa/src/core/embedding"
)

// Embedder adapts the Ollama client to the embedding.Model interface for one
// multilingual model. Both English and Arabic text share the model's vector
// space; there is no per-language re-weighting at this layer.
type Embedder struct {
	client    *Client
	modelName string
	dimension int
}

var _ embedding.Model = (*Embedder)(nil)

// NewEmbedder wraps client for the given model name and vector dimension.
func NewEmbedder(client *Client, modelName string, dimension int) *Embedder {
	return &Embedder{
		client:    client,
		modelName: modelName,
		dimension: dimension,
	}
}

// Embed returns the model embedding for text.
func (e *Embedder) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	vec, err := e.client.GetEmbedding(ctx, e.modelName, text)
	if err != nil {
		return nil, err
	}
	return embedding.Vector(vec), nil
}

// Dimension returns the model's fixed vector dimension.
func (e *Embedder) Dimension() int {
	return e.dimension
}

package embedding

import (
	"hash/fnv"
	"math"
)

// Lexical builds a deterministic term-frequency vector from normalized
// tokens. Each token is hashed into one of dim buckets and the result is
// L2-normalized, so the vector lives in the same space the cosine math
// expects. It is the degraded-mode stand-in for a real model embedding, not
// a semantic representation.
func Lexical(tokens []string, dim int) Vector {
	vec := make(Vector, dim)
	if dim == 0 || len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		vec[int(h.Sum64()%uint64(dim))]++
	}

	normalizeL2(vec)
	return vec
}

func normalizeL2(vec Vector) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

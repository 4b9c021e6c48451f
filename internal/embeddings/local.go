package embeddings

import (
	"context"
	"math"
)

// LocalEmbedder produces deterministic embeddings without any external
// service. It hashes character positions into a fixed-size normalized vector,
// so texts sharing vocabulary land near each other. Paired with the static
// LLM provider it lets the whole pipeline run offline; retrieval quality is
// rough but stable and reproducible.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a local embedder with the given vector size.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &LocalEmbedder{dims: dims}
}

func (e *LocalEmbedder) Name() string {
	return "local"
}

func (e *LocalEmbedder) Dimensions() int {
	return e.dims
}

func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = e.vector(text)
	}
	return results, nil
}

func (e *LocalEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % e.dims
		vec[idx] += 1.0
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

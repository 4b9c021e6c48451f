// Package embeddings turns corpus passages and retrieval queries into
// vectors for the similarity index.
package embeddings

import "context"

// Embedder computes embedding vectors for batches of texts. The result
// slice is parallel to the input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector width this embedder produces.
	Dimensions() int

	// Name identifies the backing model, used in logs.
	Name() string
}

package adapter

import (
	"context"
	"crypto/sha256"
)

// HashEmbedder produces deterministic pseudo-embeddings from a SHA-256 digest
// of the text. The vectors carry no semantic meaning, but identical texts map
// to identical vectors, so exact-duplicate retrieval still works when no real
// embedding provider is reachable.
type HashEmbedder struct{}

// Embed never fails. Each vector is the text's SHA-256 digest repeated to
// EmbeddingDimension, with each byte normalized to [0,1].
func (HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = hashVector(text)
	}
	return vecs, nil
}

func hashVector(text string) []float32 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, EmbeddingDimension)
	for i := range vec {
		vec[i] = float32(digest[i%len(digest)]) / 255.0
	}
	return vec
}

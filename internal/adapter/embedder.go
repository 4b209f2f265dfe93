package adapter

import (
	"context"
	"fmt"
)

// EmbeddingDimension is the fixed width of every vector this package emits.
// Semantic providers are pinned to it (dimensions=384 for OpenAI, all-minilm
// for Ollama) and the hash fallback fills it exactly.
const EmbeddingDimension = 384

// Embedder maps batches of texts to fixed-length vectors, order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedResult carries embedding vectors plus a degraded-mode flag so callers
// can observe when semantic quality was lost to a provider failure.
type EmbedResult struct {
	Vectors  [][]float32
	Degraded bool
}

// NewEmbedder constructs the Embedder for the named provider.
// "fallback" selects the deterministic hash embedder directly.
func NewEmbedder(provider, apiKey, ollamaHost, embedModel string) (Embedder, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIEmbedder(apiKey), nil
	case ProviderOllama:
		host := ollamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		model := embedModel
		if model == "" {
			model = "all-minilm"
		}
		return NewOllama(host, model), nil
	case ProviderFallback:
		return HashEmbedder{}, nil
	default:
		return nil, fmt.Errorf("adapter: unknown embedding provider %q; valid providers: openai, ollama, fallback", provider)
	}
}

// ResilientEmbedder wraps a primary Embedder with the hash fallback. Its
// EmbedAll never fails: any primary error or malformed response degrades to
// deterministic hash vectors, so retrieval quality drops but callers keep
// working.
type ResilientEmbedder struct {
	primary  Embedder
	fallback HashEmbedder
}

// NewResilientEmbedder wraps primary. A nil primary runs fallback-only.
func NewResilientEmbedder(primary Embedder) *ResilientEmbedder {
	return &ResilientEmbedder{primary: primary}
}

// EmbedAll embeds texts via the primary provider, degrading to the hash
// fallback on any error. The result always has exactly one vector of
// EmbeddingDimension floats per input text.
func (r *ResilientEmbedder) EmbedAll(ctx context.Context, texts []string) EmbedResult {
	if len(texts) == 0 {
		return EmbedResult{}
	}

	if r.primary != nil {
		vecs, err := r.primary.Embed(ctx, texts)
		if err == nil && wellFormed(vecs, len(texts)) {
			return EmbedResult{Vectors: vecs}
		}
	}

	vecs, err := r.fallback.Embed(ctx, texts)
	if err != nil || !wellFormed(vecs, len(texts)) {
		// Cannot happen with the hash embedder; zero vectors are the final
		// resort rather than an error.
		vecs = make([][]float32, len(texts))
		for i := range vecs {
			vecs[i] = make([]float32, EmbeddingDimension)
		}
	}
	return EmbedResult{Vectors: vecs, Degraded: true}
}

func wellFormed(vecs [][]float32, want int) bool {
	if len(vecs) != want {
		return false
	}
	for _, v := range vecs {
		if len(v) != EmbeddingDimension {
			return false
		}
	}
	return true
}

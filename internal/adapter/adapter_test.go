package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_ValidProviders(t *testing.T) {
	tests := []struct {
		provider string
	}{
		{ProviderClaude},
		{ProviderOpenAI},
		{ProviderOllama},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			a, err := New(tt.provider, "test-key", "")
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.provider, err)
			}
			if a == nil {
				t.Fatalf("New(%q) returned nil adapter", tt.provider)
			}
			info := a.Info()
			if info.Provider != tt.provider {
				t.Errorf("Info().Provider = %q, want %q", info.Provider, tt.provider)
			}
		})
	}
}

func TestNew_InvalidProvider(t *testing.T) {
	_, err := New("invalid", "key", "")
	if err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestNewEmbedder_InvalidProvider(t *testing.T) {
	_, err := NewEmbedder("claude", "key", "", "")
	if err == nil {
		t.Error("expected error: claude has no embedding API")
	}
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	var h HashEmbedder

	a, err := h.Embed(context.Background(), []string{"I went for a run today"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	b, err := h.Embed(context.Background(), []string{"I went for a run today"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("batch lengths: %d, %d", len(a), len(b))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at index %d: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

func TestHashEmbedder_DimensionAndRange(t *testing.T) {
	var h HashEmbedder

	vecs, err := h.Embed(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("batch length = %d, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != EmbeddingDimension {
			t.Errorf("vector %d length = %d, want %d", i, len(v), EmbeddingDimension)
		}
		for j, f := range v {
			if f < 0 || f > 1 {
				t.Fatalf("vector %d component %d = %v, outside [0,1]", i, j, f)
			}
		}
	}
}

func TestHashEmbedder_DistinctTexts(t *testing.T) {
	var h HashEmbedder

	vecs, err := h.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	same := true
	for i := range vecs[0] {
		if vecs[0][i] != vecs[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

// failingEmbedder always errors, to exercise the degraded path.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider unreachable")
}

func TestResilientEmbedder_DegradesOnError(t *testing.T) {
	r := NewResilientEmbedder(failingEmbedder{})

	res := r.EmbedAll(context.Background(), []string{"a", "b", "c"})
	if !res.Degraded {
		t.Error("expected Degraded = true after provider failure")
	}
	if len(res.Vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(res.Vectors))
	}
	for i, v := range res.Vectors {
		if len(v) != EmbeddingDimension {
			t.Errorf("vector %d length = %d, want %d", i, len(v), EmbeddingDimension)
		}
	}
}

func TestResilientEmbedder_PrimarySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		embeddings := make([][]float32, len(req.Input))
		for i := range embeddings {
			embeddings[i] = make([]float32, EmbeddingDimension)
			embeddings[i][0] = float32(i + 1)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: embeddings}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer server.Close()

	r := NewResilientEmbedder(NewOllama(server.URL, "all-minilm"))

	res := r.EmbedAll(context.Background(), []string{"x", "y"})
	if res.Degraded {
		t.Error("unexpected degraded mode with healthy provider")
	}
	if len(res.Vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(res.Vectors))
	}
	if res.Vectors[0][0] != 1 || res.Vectors[1][0] != 2 {
		t.Error("vector order does not match input order")
	}
}

func TestResilientEmbedder_MalformedProviderOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Wrong width: provider ignored the requested dimensionality.
		fmt.Fprint(w, `{"embeddings":[[0.1,0.2,0.3]]}`)
	}))
	defer server.Close()

	r := NewResilientEmbedder(NewOllama(server.URL, "all-minilm"))

	res := r.EmbedAll(context.Background(), []string{"x"})
	if !res.Degraded {
		t.Error("expected degraded mode for wrong-width vectors")
	}
	if len(res.Vectors) != 1 || len(res.Vectors[0]) != EmbeddingDimension {
		t.Error("fallback did not restore the expected shape")
	}
}

func TestResilientEmbedder_EmptyBatch(t *testing.T) {
	r := NewResilientEmbedder(failingEmbedder{})

	res := r.EmbedAll(context.Background(), nil)
	if res.Degraded {
		t.Error("empty batch should not report degraded mode")
	}
	if len(res.Vectors) != 0 {
		t.Errorf("got %d vectors for empty batch", len(res.Vectors))
	}
}

func TestOllamaComplete_NonStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// System prompt, two history turns, then the user message.
		if len(req.Messages) != 4 {
			t.Errorf("got %d messages, want 4", len(req.Messages))
		}
		if req.Messages[len(req.Messages)-1].Role != "user" {
			t.Errorf("last message role = %q, want user", req.Messages[len(req.Messages)-1].Role)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"Keep going, one day at a time."},"done":true}`)
	}))
	defer server.Close()

	a := NewOllama(server.URL, "")
	ch, err := a.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "You are a mentor.",
		History: []Turn{
			{Role: "user", Content: "I skipped my run."},
			{Role: "assistant", Content: "That happens."},
		},
		UserMessage: "How do I get back on track?",
		MaxTokens:   128,
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	var got string
	for chunk := range ch {
		if chunk.Error != nil {
			t.Fatalf("stream error: %v", chunk.Error)
		}
		got += chunk.Text
	}
	if got != "Keep going, one day at a time." {
		t.Errorf("got %q", got)
	}
}

func TestOllamaComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewOllama(server.URL, "")
	ch, err := a.Complete(context.Background(), CompletionRequest{UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	var sawError bool
	for chunk := range ch {
		if chunk.Error != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error chunk for status 500")
	}
}

package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sageline/sage/internal/memory"
)

// Default context assembly parameters.
const (
	defaultMaxMemories   = 10
	defaultContextTokens = 4000
	journeyLookbackDays  = 30
)

// BuildOptions controls context assembly.
type BuildOptions struct {
	MaxMemories int
	MaxTokens   int // token cap on the assembled block; 0 means the default
}

// Builder assembles the per-turn context block handed to the LLM: the user's
// journey summary followed by memories relevant to the current input.
type Builder struct {
	journey   *Retriever
	memories  *memory.Manager
	tokenizer *Tokenizer
}

// NewBuilder creates a Builder.
func NewBuilder(journey *Retriever, memories *memory.Manager, tokenizer *Tokenizer) *Builder {
	return &Builder{
		journey:   journey,
		memories:  memories,
		tokenizer: tokenizer,
	}
}

// Build assembles the context block for the user's current input. The
// sections always appear in the same order with fixed headers, and the whole
// block is truncated to the token cap.
func (b *Builder) Build(ctx context.Context, userID, currentInput string, opts BuildOptions) (string, error) {
	if opts.MaxMemories <= 0 {
		opts.MaxMemories = defaultMaxMemories
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultContextTokens
	}

	summary, err := b.journey.Summarize(ctx, userID, journeyLookbackDays)
	if err != nil {
		return "", fmt.Errorf("mentor: build context: %w", err)
	}

	relevant, err := b.memories.ContextualMemories(ctx, userID, currentInput, opts.MaxMemories)
	if err != nil {
		return "", fmt.Errorf("mentor: build context: %w", err)
	}

	block := strings.Join([]string{
		"=== USER'S JOURNEY CONTEXT ===",
		FormatJourney(summary),
		"\n=== RELEVANT PAST CONVERSATIONS ===",
		relevant,
	}, "\n\n")

	return b.tokenizer.Truncate(block, opts.MaxTokens), nil
}

package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sageline/sage/internal/adapter"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

const mentorSystemPrompt = `You are a compassionate and insightful personal mentor AI. Your role is to:

1. Support the user's personal growth journey
2. Remember and reference their past goals, struggles, and achievements
3. Provide thoughtful, personalized advice based on their history
4. Celebrate their wins and help them navigate challenges
5. Ask meaningful questions to deepen understanding
6. Offer actionable suggestions and encouragement
7. Track their progress and provide reflections

Guidelines:
- Be warm, empathetic, and non-judgmental
- Use their past context to make connections and insights
- Keep responses concise but meaningful (2-4 paragraphs typically)
- Focus on growth mindset and positive reinforcement
- When appropriate, ask clarifying questions
- Acknowledge their emotions and validate their experiences
- Provide specific, actionable advice when requested

Remember: You are a supportive companion on their personal development journey.`

// apologyMessage is shown when the generation step fails. The interaction
// loop keeps running and nothing is persisted to the conversation log.
const apologyMessage = "I'm sorry, I couldn't come up with a response just now. Please try again in a moment."

// historyTurns is how many prior messages are replayed to the model.
const historyTurns = 6

// Agent is the conversational mentor. It stores each user message as a
// categorized memory, assembles journey context, and replays recent
// conversation history to the LLM.
type Agent struct {
	store    *journal.Store
	memories *memory.Manager
	builder  *Builder
	journey  *Retriever
	llm      adapter.LLMAdapter

	Model       string
	MaxTokens   int
	Temperature float64

	// BuildOpts bounds the assembled context block. Zero values use the
	// builder's defaults.
	BuildOpts BuildOptions

	// OnChunk, if set, receives each streamed response fragment as it
	// arrives. The full reply is still returned from Chat.
	OnChunk func(text string)
}

// NewAgent creates a mentor Agent.
func NewAgent(store *journal.Store, memories *memory.Manager, journey *Retriever, builder *Builder, llm adapter.LLMAdapter) *Agent {
	return &Agent{
		store:    store,
		memories: memories,
		builder:  builder,
		journey:  journey,
		llm:      llm,
	}
}

// Chat processes one user message and returns the mentor's reply. The
// message is categorized and remembered before generation; the conversation
// turn is persisted only after a response is obtained, so a generation
// failure leaves the conversation log untouched and yields an apologetic
// reply instead of an error.
func (a *Agent) Chat(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("mentor: empty message: %w", journal.ErrInvalid)
	}

	if _, _, err := a.memories.Remember(ctx, userID, message, ""); err != nil {
		return "", fmt.Errorf("mentor: remember message: %w", err)
	}

	contextBlock, err := a.builder.Build(ctx, userID, message, a.BuildOpts)
	if err != nil {
		return "", err
	}

	history, err := a.store.ConversationHistory(userID, historyTurns)
	if err != nil {
		return "", fmt.Errorf("mentor: load history: %w", err)
	}
	turns := make([]adapter.Turn, len(history))
	for i, c := range history {
		turns[i] = adapter.Turn{Role: c.Role, Content: c.Content}
	}

	reply, err := a.generate(ctx, adapter.CompletionRequest{
		SystemPrompt: mentorSystemPrompt,
		Context:      contextBlock,
		History:      turns,
		UserMessage:  message,
		Model:        a.Model,
		MaxTokens:    a.MaxTokens,
		Temperature:  a.Temperature,
		Stream:       true,
	})
	if err != nil {
		// Streaming callers only print what OnChunk hands them, so the
		// apology has to go through it too.
		if a.OnChunk != nil {
			a.OnChunk(apologyMessage)
		}
		return apologyMessage, nil
	}

	if _, err := a.store.SaveConversation(journal.Conversation{UserID: userID, Role: "user", Content: message}); err != nil {
		return "", fmt.Errorf("mentor: save conversation: %w", err)
	}
	if _, err := a.store.SaveConversation(journal.Conversation{UserID: userID, Role: "assistant", Content: reply}); err != nil {
		return "", fmt.Errorf("mentor: save conversation: %w", err)
	}
	return reply, nil
}

// generate drains the completion stream into a single string.
func (a *Agent) generate(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	ch, err := a.llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for chunk := range ch {
		if chunk.Error != nil {
			return "", chunk.Error
		}
		b.WriteString(chunk.Text)
		if a.OnChunk != nil && chunk.Text != "" {
			a.OnChunk(chunk.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("mentor: empty response from %s", a.llm.Info().Provider)
	}
	return b.String(), nil
}

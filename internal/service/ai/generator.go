package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/makialabs/makia-oracle/backend/internal/analysis/sentiment"
	"github.com/makialabs/makia-oracle/backend/internal/config"
	"github.com/makialabs/makia-oracle/backend/internal/model/profile"
)

// ErrGeneration marks a completion capability failure. Callers are expected
// to degrade gracefully instead of surfacing it.
var ErrGeneration = errors.New("reply generation failed")

// clarifyInstruction is appended to the system prompt when the learner
// sounds confused.
const clarifyInstruction = "\n\nThe user is confused. Please explain very clearly step by step."

// Service generates tutor replies through a compiled prompt+model chain.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the generator from the configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newService(ctx, chatModel)
}

func newService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate produces a tutor reply for the user message. The system prompt is
// the profile's template, extended with a step-by-step clarification
// instruction when the learner sounds confused.
func (s *Service) Generate(ctx context.Context, prof profile.TutorProfile, userText string, label sentiment.Label) (string, error) {
	systemPrompt := prof.PromptTemplate
	if label == sentiment.Confused {
		systemPrompt += clarifyInstruction
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  userText,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	log.Printf("[ai] generated reply for profile=%s sentiment=%s length=%d", prof.ID, label, len(response.Content))
	return response.Content, nil
}

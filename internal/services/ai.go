package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/yukikurage/standup-api/internal/models"
)

// Summarizer turns a day's standups into a short digest.
type Summarizer interface {
	SummarizeStandups(ctx context.Context, boardName, date string, standups []models.Standup) (string, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// NewAIServiceWithBaseURL points the client at a compatible API endpoint.
func NewAIServiceWithBaseURL(apiKey, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// SummarizeStandups asks the model for a team digest of one board's day
func (s *AIService) SummarizeStandups(ctx context.Context, boardName, date string, standups []models.Standup) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	var b strings.Builder
	for _, st := range standups {
		fmt.Fprintf(&b, "- %s\n  yesterday: %s\n  today: %s\n  blockers: %s\n",
			st.UserID, oneLine(st.Yesterday), oneLine(st.Today), oneLine(st.Blockers))
	}

	prompt := fmt.Sprintf(`You summarize asynchronous daily standups for a team.

Board: %s
Date: %s

Entries:
%s
Write a short digest in plain text with three parts:
1. Progress: what the team finished or moved forward.
2. Plans: what the team is working on today.
3. Blockers: every blocker with the person who reported it, or "None".
Do not invent information that is not in the entries.`, boardName, date, b.String())

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return strings.Join(strings.Fields(s), " ")
}

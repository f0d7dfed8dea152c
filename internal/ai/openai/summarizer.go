// Package openai implements the ai contracts against OpenAI-compatible
// chat and embedding endpoints.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aganswers/spotlight/internal/ai"
)

const maxKeywords = 10

// Summarizer implements ai.Summarizer using a chat completion call.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// NewSummarizer creates a summarizer against the configured chat endpoint.
func NewSummarizer(cfg *ai.Config, logger *slog.Logger) (ai.Summarizer, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.ChatHost),
		openai.WithToken(cfg.Token),
		openai.WithModel(cfg.ChatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create chat client: %w", err)
	}

	return &Summarizer{
		client: client,
		logger: logger.With("system", "summarizer"),
	}, nil
}

// Summarize requests a short summary and 5-10 keywords for the excerpt.
// The response is parsed from labeled SUMMARY:/KEYWORDS: lines; keywords
// beyond ten are discarded.
func (s *Summarizer) Summarize(ctx context.Context, filename, excerpt string) (*ai.Summary, error) {
	resp, err := llms.GenerateFromSinglePrompt(
		ctx, s.client,
		buildPrompt(filename, excerpt),
		llms.WithTemperature(0.0),
	)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", filename, err)
	}

	summary, keywords := parseResponse(resp)
	if summary == "" && len(keywords) == 0 {
		s.logger.WarnContext(ctx, "summarizer returned no usable content", "filename", filename)
	}

	return &ai.Summary{Summary: summary, Keywords: keywords}, nil
}

func buildPrompt(filename, excerpt string) string {
	return fmt.Sprintf(`Analyze this document and provide:
1. A concise 2-3 sentence summary
2. A list of 5-10 relevant keywords

Document: %s
Content sample: %s

Respond in this exact format:
SUMMARY: [your summary here]
KEYWORDS: keyword1, keyword2, keyword3, keyword4, keyword5`, filename, excerpt)
}

func parseResponse(text string) (string, []string) {
	var summary string
	var keywords []string

	for line := range strings.Lines(strings.TrimSpace(text)) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		case strings.HasPrefix(line, "KEYWORDS:"):
			raw := strings.TrimPrefix(line, "KEYWORDS:")
			for _, kw := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(kw); trimmed != "" {
					keywords = append(keywords, trimmed)
				}
			}
		}
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return summary, keywords
}

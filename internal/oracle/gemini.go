package oracle

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/vartahub/newsdesk/internal/apperr"
	"github.com/vartahub/newsdesk/internal/domain"
)

const (
	questionTemperature float32 = 0.4
	articleTemperature  float32 = 0.5
)

// GeminiGenerator implements Generator against the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperr.NewUpstreamWrap("failed to create generation client", err)
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}, nil
}

func (g *GeminiGenerator) GenerateQuestions(ctx context.Context, story *domain.UserStory) ([]QuestionDraft, error) {
	raw, err := g.complete(ctx, questionSystemPrompt, buildQuestionPrompt(story), questionTemperature)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []QuestionDraft `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		g.logger.Error("question generation returned malformed JSON", "error", err)
		return nil, apperr.NewUpstreamWrap("question generation returned malformed output", err)
	}
	if len(payload.Questions) == 0 {
		return nil, apperr.NewUpstream("question generation returned no questions")
	}
	if len(payload.Questions) > 6 {
		payload.Questions = payload.Questions[:6]
	}
	return payload.Questions, nil
}

func (g *GeminiGenerator) SynthesizeArticle(ctx context.Context, story *domain.UserStory, qna []domain.QnAPair) (*ArticleDraft, error) {
	raw, err := g.complete(ctx, articleSystemPrompt, buildArticlePrompt(story, qna), articleTemperature)
	if err != nil {
		return nil, err
	}

	var draft ArticleDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		g.logger.Error("article synthesis returned malformed JSON", "error", err)
		return nil, apperr.NewUpstreamWrap("article synthesis returned malformed output", err)
	}
	return &draft, nil
}

func (g *GeminiGenerator) complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(temperature),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Error("generation request failed", "model", g.model, "error", err)
		return "", apperr.NewUpstreamWrap("generation request failed", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", apperr.NewUpstream("generation returned an empty response")
	}
	return text, nil
}

package timeparse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const resolvePromptTemplate = `You resolve natural-language time phrases into absolute timestamps.

Current time: %s
Timezone: %s

Rules:
1. Prefer the future: a bare time of day or weekday means the nearest future occurrence.
2. If the phrase contains no temporal content, answer NONE.
3. Otherwise answer the resolved instant in RFC 3339 format with the offset of the timezone above.

Answer with the timestamp or NONE, nothing else.`

// AIResolver is an alternative resolution engine backed by a chat model.
// Selected when an API key is configured.
type AIResolver struct {
	client *openai.Client
	model  string
	loc    *time.Location
}

func NewAIResolver(apiKey, baseURL, model string, loc *time.Location) *AIResolver {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &AIResolver{
		client: openai.NewClientWithConfig(config),
		model:  model,
		loc:    loc,
	}
}

func (r *AIResolver) Resolve(ctx context.Context, phrase string, now time.Time) (time.Time, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(resolvePromptTemplate,
					now.In(r.loc).Format(time.RFC3339), r.loc.String()),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: phrase,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return time.Time{}, ErrNoDate
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if strings.EqualFold(answer, "NONE") {
		return time.Time{}, ErrNoDate
	}

	t, err := time.Parse(time.RFC3339, answer)
	if err != nil {
		return time.Time{}, ErrNoDate
	}

	return t.In(r.loc), nil
}

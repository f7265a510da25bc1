package ai

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements every collaborator port against chat completions.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) complete(ctx context.Context, systemPrompt string, input string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		log.Println("[ai] OpenAI error:", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		log.Println("[ai] empty choices")
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) DetectLanguage(ctx context.Context, text string) (string, error) {
	raw, err := c.complete(ctx, DetectPrompt, text)
	if err != nil {
		return "", err
	}

	code := strings.ToLower(strings.Trim(raw, " .\"'`"))
	if len(code) > 2 {
		code = code[:2]
	}
	return code, nil
}

func (c *OpenAIClient) Translate(ctx context.Context, text string, source string, target string) (string, error) {
	if source == target || text == "" {
		return text, nil
	}

	b, _ := json.Marshal(map[string]string{
		"text":   text,
		"source": source,
		"target": target,
	})
	return c.complete(ctx, TranslatePrompt, string(b))
}

func (c *OpenAIClient) IsTransactional(ctx context.Context, text string, lang string) (bool, error) {
	b, _ := json.Marshal(map[string]string{"text": text, "lang": lang})

	raw, err := c.complete(ctx, ClassifyPrompt, string(b))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(raw), "yes"), nil
}

func (c *OpenAIClient) BestAnswer(ctx context.Context, text string, lang string) (string, error) {
	b, _ := json.Marshal(map[string]string{"text": text, "lang": lang})

	raw, err := c.complete(ctx, AnswerPrompt, string(b))
	if err != nil {
		return "", err
	}
	if strings.EqualFold(raw, "NO_ANSWER") {
		return "", nil
	}
	return raw, nil
}

func (c *OpenAIClient) Orchestrate(ctx context.Context, query string, lang string, customerID string, month string) (string, error) {
	b, _ := json.Marshal(map[string]string{
		"query":       query,
		"lang":        lang,
		"customer_id": customerID,
		"month":       month,
	})
	return c.complete(ctx, OrchestratePrompt, string(b))
}

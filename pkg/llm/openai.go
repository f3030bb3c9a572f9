package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client     *openai.Client
	model      openai.ChatModel
	tokenUsage int64
}

func NewOpenAIClient() *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
	return &OpenAIClient{
		client: &client,
		model:  openai.ChatModelGPT4,
	}
}

func (c *OpenAIClient) complete(system, user string, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens: openai.Int(maxTokens),
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	c.tokenUsage += resp.Usage.TotalTokens
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateContentPolicy(site SiteInfo) (string, error) {
	return c.complete(policySystemPrompt, buildPolicyPrompt(site), 1500)
}

func (c *OpenAIClient) GenerateArticleOutlines(policy string, count int, existing []Outline) ([]Outline, error) {
	content, err := c.complete(outlineSystemPrompt, buildOutlinesPrompt(policy, count, existing), 2000)
	if err != nil {
		return nil, err
	}
	return parseOutlines(content), nil
}

func (c *OpenAIClient) GenerateArticleContent(outline Outline, language string, userInstructions string) (string, error) {
	lang := LanguageName(language)
	return c.complete(contentSystemPrompt(lang), buildContentPrompt(outline, lang, userInstructions), 4000)
}

func (c *OpenAIClient) TokenUsage() int64 {
	return c.tokenUsage
}

package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client     *anthropic.Client
	model      anthropic.Model
	tokenUsage int64
}

func NewAnthropicClient() *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
	return &AnthropicClient{
		client: &client,
		model:  anthropic.ModelClaudeSonnet4_5,
	}
}

func (c *AnthropicClient) complete(system, user string, maxTokens int64) (string, error) {
	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	c.tokenUsage += resp.Usage.InputTokens + resp.Usage.OutputTokens
	return resp.Content[0].Text, nil
}

func (c *AnthropicClient) GenerateContentPolicy(site SiteInfo) (string, error) {
	return c.complete(policySystemPrompt, buildPolicyPrompt(site), 1500)
}

func (c *AnthropicClient) GenerateArticleOutlines(policy string, count int, existing []Outline) ([]Outline, error) {
	content, err := c.complete(outlineSystemPrompt, buildOutlinesPrompt(policy, count, existing), 2000)
	if err != nil {
		return nil, err
	}
	return parseOutlines(content), nil
}

func (c *AnthropicClient) GenerateArticleContent(outline Outline, language string, userInstructions string) (string, error) {
	lang := LanguageName(language)
	return c.complete(contentSystemPrompt(lang), buildContentPrompt(outline, lang, userInstructions), 4000)
}

func (c *AnthropicClient) TokenUsage() int64 {
	return c.tokenUsage
}

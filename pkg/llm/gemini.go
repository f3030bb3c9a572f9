package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

type GeminiClient struct {
	apiKey     string
	model      string
	tokenUsage int64
}

func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		apiKey: os.Getenv("GOOGLE_API_KEY"),
		model:  "gemini-2.0-flash",
	}
}

func (c *GeminiClient) complete(system, user string) (string, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini client error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response from gemini")
	}

	if resp.UsageMetadata != nil {
		c.tokenUsage += int64(resp.UsageMetadata.TotalTokenCount)
	} else {
		// No usage telemetry on this response; approximate by length.
		c.tokenUsage += int64(len(text) / 4)
	}

	return text, nil
}

func (c *GeminiClient) GenerateContentPolicy(site SiteInfo) (string, error) {
	return c.complete(policySystemPrompt, buildPolicyPrompt(site))
}

func (c *GeminiClient) GenerateArticleOutlines(policy string, count int, existing []Outline) ([]Outline, error) {
	content, err := c.complete(outlineSystemPrompt, buildOutlinesPrompt(policy, count, existing))
	if err != nil {
		return nil, err
	}
	return parseOutlines(content), nil
}

func (c *GeminiClient) GenerateArticleContent(outline Outline, language string, userInstructions string) (string, error) {
	lang := LanguageName(language)
	return c.complete(contentSystemPrompt(lang), buildContentPrompt(outline, lang, userInstructions))
}

func (c *GeminiClient) TokenUsage() int64 {
	return c.tokenUsage
}

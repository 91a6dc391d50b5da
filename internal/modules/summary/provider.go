package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/conflict-atlas/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

const defaultModel = "gpt-4o-mini"

// Generator produces summary text from a prompt pair. The concrete
// implementation is one configured AI provider.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// selectProvider picks the configured provider by id, or the first enabled
// one when no id is set. Nil means the service is not configured.
func selectProvider(cfg appcfg.AIConfig, providerID string) *appcfg.AIProvider {
	providerID = strings.TrimSpace(providerID)
	for _, provider := range cfg.Providers {
		if !provider.Enabled {
			continue
		}
		if providerID != "" && provider.ID != providerID {
			continue
		}
		selected := provider
		return &selected
	}
	return nil
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

type providerClient struct {
	provider    appcfg.AIProvider
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func newProviderClient(provider appcfg.AIProvider, ai appcfg.AIConfig) *providerClient {
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = defaultModel
	}
	return &providerClient{
		provider:    provider,
		model:       model,
		maxTokens:   ai.MaxOutputTokens,
		temperature: ai.Temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *providerClient) Model() string { return c.model }

func (c *providerClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch t := normalizeProviderType(c.provider.Type); {
	case t == "anthropic":
		return c.generateAnthropic(ctx, systemPrompt, userPrompt)
	case t == "openai-compatible" || t == "openaicompatible":
		return c.generateCompatible(ctx, systemPrompt, userPrompt)
	default:
		return c.generateOpenAI(ctx, systemPrompt, userPrompt)
	}
}

func (c *providerClient) generateOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(c.provider.APIKey),
		openaioption.WithMaxRetries(0),
	}
	if base := normalizeOpenAIBaseURL(c.provider.Endpoint); base != "" {
		opts = append(opts, openaioption.WithBaseURL(base))
	}
	client := openaiclient.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(c.model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.SystemMessage(systemPrompt),
			openaiclient.UserMessage(userPrompt),
		},
		MaxTokens:   openaiclient.Int(int64(c.maxTokens)),
		Temperature: openaiclient.Float(c.temperature),
	})
	if err != nil {
		var apierr *openaiclient.Error
		if errors.As(err, &apierr) {
			return "", &GenerationError{Status: apierr.StatusCode, Body: apierr.RawJSON()}
		}
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptySummary
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *providerClient) generateAnthropic(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(c.provider.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(c.provider.Endpoint); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}
	client := anthropicclient.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropicclient.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		var apierr *anthropicclient.Error
		if errors.As(err, &apierr) {
			return "", &GenerationError{Status: apierr.StatusCode, Body: apierr.RawJSON()}
		}
		return "", err
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(full.String())
	if text == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}

// generateCompatible speaks the chat-completions wire format directly so that
// self-hosted gateways without SDK support still work.
func (c *providerClient) generateCompatible(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	endpoint := normalizeCompatibleEndpoint(c.provider.Endpoint)

	body, _ := json.Marshal(map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.provider.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GenerationError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptySummary
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeCompatibleEndpoint(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return "https://api.openai.com"
	}
	return strings.TrimSuffix(base, "/v1")
}

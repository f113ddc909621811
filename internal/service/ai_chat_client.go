package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// AIProviderOpenAI 表示使用 OpenAI 能力。
	AIProviderOpenAI = "openai"
	// AIProviderDeepSeek 表示使用 DeepSeek 能力。
	AIProviderDeepSeek = "deepseek"
)

var supportedAIProviders = []string{AIProviderOpenAI, AIProviderDeepSeek}

const defaultAIHTTPTimeout = 5 * time.Minute

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type aiChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

type aiChatResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// AIProviderSettings 描述调用 AI 平台所需的凭据与模型。
type AIProviderSettings struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string
}

type aiChatClient struct {
	settings AIProviderSettings
	http     httpDoer
}

func newAIChatClient(settings AIProviderSettings) *aiChatClient {
	return &aiChatClient{
		settings: settings,
		http:     &http.Client{Timeout: defaultAIHTTPTimeout},
	}
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: defaultAIHTTPTimeout}
		return
	}
	c.http = client
}

func (c *aiChatClient) call(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	settings := c.settings
	provider := normalizeAIProvider(settings.Provider)
	if provider == "" {
		provider = AIProviderOpenAI
	}

	var (
		apiKey string
		base   string
		model  string
		label  string
	)

	switch provider {
	case AIProviderDeepSeek:
		apiKey = strings.TrimSpace(settings.DeepSeekAPIKey)
		base = settings.DeepSeekBaseURL
		if strings.TrimSpace(base) == "" {
			base = "https://api.deepseek.com/v1"
		}
		model = strings.TrimSpace(settings.DeepSeekModel)
		if model == "" {
			model = "deepseek-chat"
		}
		label = "DeepSeek"
	default:
		apiKey = strings.TrimSpace(settings.OpenAIAPIKey)
		base = settings.OpenAIBaseURL
		if strings.TrimSpace(base) == "" {
			base = "https://api.openai.com/v1"
		}
		model = strings.TrimSpace(settings.OpenAIModel)
		if model == "" {
			model = "gpt-4"
		}
		label = "OpenAI"
	}

	if apiKey == "" {
		return aiChatResponse{}, ErrAIAPIKeyMissing
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("构造请求失败: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(base), "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("创建 %s 请求失败: %w", label, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "healthmeal-ai/1.0")

	resp, err := client.Do(httpReq)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("%w: 请求 %s 接口失败: %v", ErrUpstream, label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("%w: 读取 %s 响应失败: %v", ErrUpstream, label, err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return aiChatResponse{}, fmt.Errorf("%w: %s 接口返回错误：%s", ErrUpstream, label, resp.Status)
		}
		return aiChatResponse{}, fmt.Errorf("%w: 解析 %s 响应失败: %v", ErrUpstream, label, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		if errMsg == "" {
			errMsg = resp.Status
		}
		return aiChatResponse{}, fmt.Errorf("%w: %s 接口返回错误：%s", ErrUpstream, label, errMsg)
	}

	if len(completion.Choices) == 0 {
		return aiChatResponse{}, fmt.Errorf("%w: %s 接口未返回结果", ErrUpstream, label)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	return aiChatResponse{
		Content:          content,
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, nil
}

func normalizeAIProvider(provider string) string {
	trimmed := strings.ToLower(strings.TrimSpace(provider))
	for _, candidate := range supportedAIProviders {
		if trimmed == candidate {
			return candidate
		}
	}
	return ""
}

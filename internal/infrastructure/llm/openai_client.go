// Package llm 封装模型提供商客户端
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/config"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/metrics"
	"bookforge-api/pkg/tracer"
)

// OpenAIClient OpenAI 兼容接口的模型客户端
// 重试由生成引擎统一控制，这里关闭 SDK 自带重试
type OpenAIClient struct {
	client      openai.Client
	name        string
	model       string
	maxTokens   int
	temperature float64
}

var _ generation.Invoker = (*OpenAIClient)(nil)

// NewOpenAIClient 创建模型客户端
// name 为提供商配置名，用于指标标签
func NewOpenAIClient(name string, cfg config.ProviderConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider %s: api key is required", name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm provider %s: model is required", name)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		name:        name,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Invoke 执行一次对话补全
func (c *OpenAIClient) Invoke(ctx context.Context, prompt generation.Prompt) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.OpenAIClient.Invoke")
	defer span.End()

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	metrics.LLMCallDuration.WithLabelValues(c.name, c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(c.name, c.model, "error").Inc()
		return "", c.classify(err)
	}

	metrics.LLMCallTotal.WithLabelValues(c.name, c.model, "ok").Inc()
	metrics.LLMTokensUsed.WithLabelValues(c.name, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.name, c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrLLMProviderError.WithDetail("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify 将 SDK 错误映射为业务错误码
func (c *OpenAIClient) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return apperrors.ErrLLMRateLimited.WithError(err)
		}
		return apperrors.ErrLLMProviderError.
			WithDetail(fmt.Sprintf("provider %s returned status %d: %s", c.name, apiErr.StatusCode, apiErr.Message)).
			WithError(err)
	}
	return apperrors.ErrLLMProviderError.WithError(err)
}

package llm

import (
	"context"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterClient OpenRouter 客户端
//
// OpenRouter 提供 OpenAI 兼容的聚合 API，基于 OpenAI SDK 实现。
// 装置通过它访问多家模型并在线路退化时切换备用模型。
type OpenRouterClient struct {
	client  *openai.Client
	options *Options
}

// NewOpenRouter 创建 OpenRouter 客户端
func NewOpenRouter(opts ...Option) (*OpenRouterClient, error) {
	options := DefaultOptions()
	options.BaseURL = "https://openrouter.ai/api/v1"
	options.Model = "openai/gpt-4o-mini"

	for _, opt := range opts {
		opt(options)
	}

	if options.APIKey == "" {
		return nil, errors.ErrInvalidAPIKey
	}

	config := openai.DefaultConfig(options.APIKey)
	config.BaseURL = options.BaseURL

	return &OpenRouterClient{
		client:  openai.NewClientWithConfig(config),
		options: options,
	}, nil
}

// Name 返回提供商名称
func (c *OpenRouterClient) Name() string {
	return "openrouter"
}

// Model 返回当前模型名称
func (c *OpenRouterClient) Model() string {
	return c.options.Model
}

// Close 关闭客户端连接
func (c *OpenRouterClient) Close() error {
	return nil
}

// Generate 生成响应（非流式）
func (c *OpenRouterClient) Generate(ctx context.Context, req Request) (Response, error) {
	chatReq := buildOpenAIChatRequest(req, c.options)

	var resp openai.ChatCompletionResponse
	var err error

	err = retry(ctx, c.options.MaxRetries, c.options.RetryDelay, func() error {
		resp, err = c.client.CreateChatCompletion(ctx, chatReq)
		return mapOpenAIError(err)
	})

	if err != nil {
		return Response{}, err
	}

	return parseOpenAIResponse(resp), nil
}

// compile-time interface check
var _ Provider = (*OpenRouterClient)(nil)

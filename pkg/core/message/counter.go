package message

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter 定义 Token 计数接口。
type TokenCounter interface {
	// Count 返回给定文本的 Token 数量。
	Count(text string) int

	// CountMessages 返回消息列表的总 Token 数量，
	// 包括角色前缀和分隔符的开销。
	CountMessages(messages []Message) int
}

// TiktokenCounter 使用 tiktoken 实现精确的 Token 计数。
// 技术翻译调用用它估算提示词预算。
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

// TiktokenOption 配置 TiktokenCounter。
type TiktokenOption func(*TiktokenCounter)

// WithCounterModel 设置 Token 编码使用的模型。
func WithCounterModel(model string) TiktokenOption {
	return func(c *TiktokenCounter) {
		c.model = model
	}
}

// NewTiktokenCounter 创建新的 TiktokenCounter。
// 未知模型降级到 cl100k_base 编码。
func NewTiktokenCounter(opts ...TiktokenOption) (*TiktokenCounter, error) {
	c := &TiktokenCounter{
		model: "gpt-4o",
	}

	for _, opt := range opts {
		opt(c)
	}

	encoding, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encoding = encoding
	return c, nil
}

// Count 返回给定文本的 Token 数量。
func (c *TiktokenCounter) Count(text string) int {
	if c.encoding == nil {
		return estimateTokens(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// CountMessages 返回消息列表的总 Token 数量。
// 按 OpenAI 的消息格式化开销计算。
func (c *TiktokenCounter) CountMessages(messages []Message) int {
	tokensPerMessage := 3 // <|start|>{role/name}\n{content}<|end|>\n
	tokensPerName := 1

	total := 0
	for _, msg := range messages {
		total += tokensPerMessage
		total += c.Count(string(msg.Role))
		total += c.Count(msg.Content)
		if msg.Name != "" {
			total += c.Count(msg.Name) + tokensPerName
		}
	}
	total += 3 // 回复以 <|start|>assistant<|message|> 开头

	return total
}

// EstimatedCounter 使用字符估算实现 Token 计数，
// 是 tiktoken 不可用时的降级方案。
type EstimatedCounter struct {
	// CharsPerToken 每个 Token 的平均字符数，默认 4。
	CharsPerToken float64
}

// NewEstimatedCounter 创建新的 EstimatedCounter。
func NewEstimatedCounter() *EstimatedCounter {
	return &EstimatedCounter{
		CharsPerToken: 4.0,
	}
}

// Count 返回估算的 Token 数量。
func (c *EstimatedCounter) Count(text string) int {
	if c.CharsPerToken <= 0 {
		c.CharsPerToken = 4.0
	}
	return int(float64(len(text)) / c.CharsPerToken)
}

// CountMessages 返回消息列表的估算 Token 数量。
func (c *EstimatedCounter) CountMessages(messages []Message) int {
	tokensPerMessage := 4

	total := 0
	for _, msg := range messages {
		total += tokensPerMessage
		total += c.Count(string(msg.Role))
		total += c.Count(msg.Content)
		if msg.Name != "" {
			total += c.Count(msg.Name) + 1
		}
	}
	total += 3

	return total
}

func estimateTokens(text string) int {
	charCount := len(text)
	wordCount := len(strings.Fields(text))

	if wordCount == 0 {
		return charCount / 4
	}

	charBasedTokens := charCount / 4
	wordBasedTokens := int(float64(wordCount) * 1.3)

	return (charBasedTokens + wordBasedTokens) / 2
}

// DefaultTokenCounter 返回一个 TokenCounter，
// 优先使用 TiktokenCounter，不可用时降级到 EstimatedCounter。
func DefaultTokenCounter() TokenCounter {
	counter, err := NewTiktokenCounter()
	if err != nil {
		return NewEstimatedCounter()
	}
	return counter
}

// 编译时接口检查
var _ TokenCounter = (*TiktokenCounter)(nil)
var _ TokenCounter = (*EstimatedCounter)(nil)

// Package hub 提供执行器枢纽（Home Assistant）的 REST 客户端
//
// 枢纽暴露立方体的灯光、音频与传感器实体。客户端把它当作可能不可达的
// 黑盒：每个请求携带显式超时，实体不存在是正常结果而不是错误。
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
)

// Entity 枢纽实体状态
type Entity struct {
	// EntityID 实体标识（如 light.cube_inner）
	EntityID string `json:"entity_id"`
	// State 当前状态
	State string `json:"state"`
	// Attributes 实体属性
	Attributes map[string]interface{} `json:"attributes"`
	// LastChanged 状态最后变化时间
	LastChanged time.Time `json:"last_changed"`
	// LastUpdated 最后更新时间
	LastUpdated time.Time `json:"last_updated"`
}

// Client 枢纽 REST 客户端
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithHubTimeout 设置请求超时
func WithHubTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHubHTTPClient 设置 HTTP 客户端
func WithHubHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient 创建枢纽客户端
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ping 检查枢纽是否可达
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub ping: %s: %w", resp.Status, errors.ErrHubRequestFailed)
	}
	return nil
}

// GetEntity 获取实体状态
//
// 实体不存在返回 (nil, nil)：缺失是正常结果，由调用方决定语义。
func (c *Client) GetEntity(ctx context.Context, entityID string) (*Entity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/states/"+entityID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var entity Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return &entity, nil
}

// SetEntityState 设置实体状态
func (c *Client) SetEntityState(ctx context.Context, entityID, state string, attributes map[string]interface{}) (*Entity, error) {
	payload := map[string]interface{}{
		"state": state,
	}
	if len(attributes) > 0 {
		payload["attributes"] = attributes
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/states/"+entityID, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(resp)
	}

	var entity Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return &entity, nil
}

// CallService 调用枢纽服务（如 light.turn_on）
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]interface{}) error {
	path := "/api/services/" + domain + "/" + service

	resp, err := c.do(ctx, http.MethodPost, path, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}

	// 响应体是受影响的实体列表，调用方不需要
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do 执行带认证与超时的请求
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 连接失败与超时统一映射为枢纽不可达
		return nil, fmt.Errorf("%s %s: %v: %w", method, path, err, errors.ErrHubUnavailable)
	}
	return resp, nil
}

// statusError 把非预期状态码转换为错误
func (c *Client) statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	detail := strings.TrimSpace(string(bodyBytes))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return fmt.Errorf("hub returned %s: %s: %w", resp.Status, detail, errors.ErrHubRequestFailed)
}

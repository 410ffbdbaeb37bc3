package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisStore Redis 样本存储
//
// 每个工具一个有序集合,score 为记录时间的毫秒时间戳,
// member 为样本的 JSON 序列化。追加时顺带清理窗口外的旧样本。
type RedisStore struct {
	client *backend.Client
	prefix string
	window time.Duration
}

// RedisStoreOption RedisStore 配置选项
type RedisStoreOption func(*RedisStore)

// WithStorePrefix 设置键前缀
func WithStorePrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithStoreWindow 设置样本保留窗口
func WithStoreWindow(window time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if window > 0 {
			s.window = window
		}
	}
}

// NewRedisStore 创建 Redis 样本存储
func NewRedisStore(addr, password string, db int, opts ...RedisStoreOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient 基于现有客户端创建 Redis 样本存储
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisStoreOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "glitchcube",
		window: 7 * 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *RedisStore) key(toolName string) string {
	return s.prefix + ":metrics:tool:" + toolName
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":metrics:tools"
}

// Append 追加一条样本并顺带清理窗口外的旧样本
func (s *RedisStore) Append(ctx context.Context, sample Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	cutoff := time.Now().Add(-s.window).UnixMilli()

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, s.key(sample.ToolName), backend.Z{
		Score:  float64(sample.RecordedAt.UnixMilli()),
		Member: data,
	})
	pipe.SAdd(ctx, s.indexKey(), sample.ToolName)
	pipe.ZRemRangeByScore(ctx, s.key(sample.ToolName), "-inf", fmt.Sprintf("%d", cutoff))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append sample to redis: %w", err)
	}
	return nil
}

// Samples 返回某工具自 since 以来的样本
func (s *RedisStore) Samples(ctx context.Context, toolName string, since time.Time) ([]Sample, error) {
	members, err := s.client.ZRangeByScore(ctx, s.key(toolName), &backend.ZRangeBy{
		Min: fmt.Sprintf("%d", since.UnixMilli()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read samples from redis: %w", err)
	}

	samples := make([]Sample, 0, len(members))
	for _, member := range members {
		var sample Sample
		if err := json.Unmarshal([]byte(member), &sample); err != nil {
			// 损坏的样本不值得让整个查询失败
			continue
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// ToolNames 返回出现过样本的工具名,按名称排序
func (s *RedisStore) ToolNames(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tool names from redis: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Clear 清空全部样本
func (s *RedisStore) Clear(ctx context.Context) error {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list tool names from redis: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, name := range names {
		pipe.Del(ctx, s.key(name))
	}
	pipe.Del(ctx, s.indexKey())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear metrics in redis: %w", err)
	}
	return nil
}

// Close 关闭 Redis 客户端
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// compile-time interface check
var _ Store = (*RedisStore)(nil)

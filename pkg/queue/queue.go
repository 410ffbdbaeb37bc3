// Package queue 异步工具任务的派发与消费。
//
// 执行器把校验通过的异步调用投递到队列,后台 worker 逐个取出并
// 通过执行器的单任务入口执行。任务载荷只有工具名、参数和会话
// 标识,执行类型等信息由 worker 从注册表重新取得。
package queue

import (
	"context"

	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// Queue 任务队列接口
//
// Enqueue 与执行器的派发边界签名一致,Dequeue 供 worker 消费。
type Queue interface {
	// Enqueue 投递一个任务
	Enqueue(ctx context.Context, toolName string, args map[string]interface{}, sessionID, conversationID string) error

	// Dequeue 取出一个任务
	//
	// 阻塞直到有任务、轮询超时(返回 nil, nil)或队列关闭
	// (返回 ErrQueueClosed)。
	Dequeue(ctx context.Context) (*Job, error)

	// Close 关闭队列
	Close() error
}

// compile-time interface check: 两种后端都满足执行器的派发边界
var _ tools.Dispatcher = (Queue)(nil)

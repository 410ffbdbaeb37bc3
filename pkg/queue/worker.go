package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	cubeerrors "github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// ResultSink 异步结果的持久化边界
//
// 由 session 包实现。worker 执行完任务后把结果写入会话的
// 待取结果列表,下一轮对话可以播报真实结局。
type ResultSink interface {
	PutPendingResult(ctx context.Context, sessionID string, result *tools.Result) error
}

// Worker 队列消费循环
//
// 取任务、通过执行器的单任务入口执行、把结果写入会话存储。
// 校验、计时和指标都由执行器完成,worker 只负责搬运。
type Worker struct {
	queue    Queue
	executor *tools.Executor
	sink     ResultSink
	logger   *slog.Logger
}

// WorkerOption Worker 配置选项
type WorkerOption func(*Worker)

// WithResultSink 设置结果持久化边界
func WithResultSink(sink ResultSink) WorkerOption {
	return func(w *Worker) {
		w.sink = sink
	}
}

// WithWorkerLogger 设置日志器
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker 创建队列消费者
func NewWorker(q Queue, executor *tools.Executor, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:    q,
		executor: executor,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run 运行消费循环
//
// 返回 nil 表示队列正常关闭,上下文取消返回对应错误。
// 取任务失败时退避一秒再试,避免存储故障期间空转。
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("tool queue worker started")

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, cubeerrors.ErrQueueClosed) {
				w.logger.Info("tool queue closed, worker stopping")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			w.logger.Error("failed to dequeue job", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue // 轮询超时,无任务
		}

		w.process(ctx, job)
	}
}

// process 执行单个任务并持久化结果
func (w *Worker) process(ctx context.Context, job *Job) {
	result := w.executor.ExecuteSingleAsync(ctx, job.Tool, job.Arguments, job.SessionID, job.ConversationID)

	w.logger.Info("queued tool finished",
		"job_id", job.ID,
		"tool", job.Tool,
		"success", result.Success,
		"duration_ms", result.DurationMs)

	if w.sink == nil || job.SessionID == "" {
		return
	}
	if err := w.sink.PutPendingResult(ctx, job.SessionID, result); err != nil {
		w.logger.Warn("failed to store pending result",
			"job_id", job.ID, "session_id", job.SessionID, "error", err)
	}
}

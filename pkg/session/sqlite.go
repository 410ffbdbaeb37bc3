package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/glitchcube/glitchcube-go/pkg/core/errors"
	"github.com/glitchcube/glitchcube-go/pkg/core/message"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// SQLiteStore SQLite 会话存储
//
// 持久化实现,Cube 断电重启后对话历史和目标可恢复。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 创建 SQLite 会话存储
//
// 参数:
//   - dbPath: 数据库文件路径
//
// 返回:
//   - *SQLiteStore: 存储实例
//   - error: 错误信息
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}

	// 初始化表结构
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return store, nil
}

// initSchema 初始化表结构
func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT,
		name TEXT,
		tool_calls TEXT,
		tool_call_id TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);

	CREATE TABLE IF NOT EXISTS goals (
		slot TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		description TEXT NOT NULL,
		persona_id TEXT,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pending_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		stored_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pending_session ON pending_results(session_id, id);
	`

	_, err := s.db.Exec(query)
	return err
}

// AppendMessage 追加一条对话消息
func (s *SQLiteStore) AppendMessage(ctx context.Context, conversationID string, msg message.Message) error {
	var toolCalls string
	if len(msg.ToolCalls) > 0 {
		data, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return fmt.Errorf("failed to marshal tool calls: %w", err)
		}
		toolCalls = string(data)
	}

	createdAt := time.Now().UnixMilli()
	if !msg.Timestamp.IsZero() {
		createdAt = msg.Timestamp.UnixMilli()
	}

	query := `
	INSERT INTO messages (conversation_id, role, content, name, tool_calls, tool_call_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		conversationID, string(msg.Role), msg.Content, msg.Name, toolCalls, msg.ToolCallID, createdAt,
	)
	return err
}

// History 返回对话的最近消息,按时间正序排列
func (s *SQLiteStore) History(ctx context.Context, conversationID string, limit int) ([]message.Message, error) {
	// SQLite 中 LIMIT -1 表示不限制
	if limit <= 0 {
		limit = -1
	}

	// 倒序取最近 N 条,再反转为正序
	query := `
	SELECT role, content, name, tool_calls, tool_call_id, created_at
	FROM messages WHERE conversation_id = ?
	ORDER BY id DESC LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []message.Message
	for rows.Next() {
		var msg message.Message
		var role, toolCalls string
		var createdAt int64

		if err := rows.Scan(&role, &msg.Content, &msg.Name, &toolCalls, &msg.ToolCallID, &createdAt); err != nil {
			// 跳过无法解析的记录
			continue
		}

		msg.Role = message.Role(role)
		msg.Timestamp = time.UnixMilli(createdAt)

		if toolCalls != "" {
			if err := json.Unmarshal([]byte(toolCalls), &msg.ToolCalls); err != nil {
				continue
			}
		}

		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 反转为时间正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return msgs, nil
}

// SaveGoal 保存当前目标
func (s *SQLiteStore) SaveGoal(ctx context.Context, goal Goal) error {
	createdAt := time.Now().UnixMilli()
	if !goal.CreatedAt.IsZero() {
		createdAt = goal.CreatedAt.UnixMilli()
	}

	var expiresAt int64
	if !goal.ExpiresAt.IsZero() {
		expiresAt = goal.ExpiresAt.UnixMilli()
	}

	// 单目标模型: 固定槽位,新目标覆盖旧目标
	query := `
	INSERT INTO goals (slot, id, description, persona_id, created_at, expires_at)
	VALUES ('current', ?, ?, ?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET
		id = excluded.id,
		description = excluded.description,
		persona_id = excluded.persona_id,
		created_at = excluded.created_at,
		expires_at = excluded.expires_at
	`

	_, err := s.db.ExecContext(ctx, query, goal.ID, goal.Description, goal.PersonaID, createdAt, expiresAt)
	return err
}

// CurrentGoal 返回当前目标
func (s *SQLiteStore) CurrentGoal(ctx context.Context) (*Goal, error) {
	query := `SELECT id, description, persona_id, created_at, expires_at FROM goals WHERE slot = 'current'`

	var goal Goal
	var createdAt, expiresAt int64

	err := s.db.QueryRowContext(ctx, query).Scan(
		&goal.ID, &goal.Description, &goal.PersonaID, &createdAt, &expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal.CreatedAt = time.UnixMilli(createdAt)
	if expiresAt > 0 {
		goal.ExpiresAt = time.UnixMilli(expiresAt)
	}

	if goal.Expired(time.Now()) {
		return nil, errors.ErrGoalNotFound
	}

	return &goal, nil
}

// ClearGoal 清除当前目标
func (s *SQLiteStore) ClearGoal(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE slot = 'current'`)
	return err
}

// PutPendingResult 存入一条待播报的异步工具结果
func (s *SQLiteStore) PutPendingResult(ctx context.Context, sessionID string, result *tools.Result) error {
	if result == nil {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `INSERT INTO pending_results (session_id, payload, stored_at) VALUES (?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, sessionID, string(payload), time.Now().UnixMilli())
	return err
}

// TakePendingResults 取出并清空会话的待播报结果
func (s *SQLiteStore) TakePendingResults(ctx context.Context, sessionID string) ([]PendingResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT payload, stored_at FROM pending_results WHERE session_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}

	var results []PendingResult
	for rows.Next() {
		var payload string
		var storedAt int64

		if err := rows.Scan(&payload, &storedAt); err != nil {
			continue
		}

		var pr PendingResult
		if err := json.Unmarshal([]byte(payload), &pr.Result); err != nil {
			// 跳过损坏的记录
			continue
		}
		pr.StoredAt = time.UnixMilli(storedAt)
		results = append(results, pr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_results WHERE session_id = ?`, sessionID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return results, nil
}

// Close 关闭存储
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

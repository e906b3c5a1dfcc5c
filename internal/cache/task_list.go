// Package cache はRedisを使用したタスク一覧のビューキャッシュを提供する。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/taskboard/internal/model"
)

// keyPrefix はタスク一覧キャッシュのキープレフィックス。
const keyPrefix = "taskboard:tasks:"

// TaskListCache はユーザーとビューパスの組ごとにタスク一覧をキャッシュする。
// タスク作成後はフォームが送信されたパスのエントリを無効化し、
// 次回の表示で新しいタスクが反映されるようにする。
type TaskListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskListCache はTaskListCacheを生成する。
func NewTaskListCache(client *redis.Client, ttl time.Duration) *TaskListCache {
	return &TaskListCache{
		client: client,
		ttl:    ttl,
	}
}

// keyFor はユーザーIDとビューパスからキャッシュキーを組み立てる。
func keyFor(userID, path string) string {
	return keyPrefix + userID + ":" + path
}

// Get はキャッシュからタスク一覧を取得する。
// キャッシュミスの場合は(nil, false, nil)を返す。
func (c *TaskListCache) Get(ctx context.Context, userID, path string) ([]*model.Task, bool, error) {
	data, err := c.client.Get(ctx, keyFor(userID, path)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var tasks []*model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return tasks, true, nil
}

// Set はタスク一覧をキャッシュに保存する。
func (c *TaskListCache) Set(ctx context.Context, userID, path string, tasks []*model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, keyFor(userID, path), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

// Invalidate は指定ユーザー・パスのキャッシュエントリを削除する。
// エントリが存在しない場合もエラーにはならない。
func (c *TaskListCache) Invalidate(ctx context.Context, userID, path string) error {
	if err := c.client.Del(ctx, keyFor(userID, path)).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

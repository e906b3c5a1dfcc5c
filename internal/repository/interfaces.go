// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// ExistsByID は指定IDのユーザーが存在するかを返す。読み取り専用で副作用はない。
	ExistsByID(ctx context.Context, id string) (bool, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。
	// 同一IDのレコードが既に存在する場合は何もせず正常終了する。
	// check-then-createの競合はこのストレージレベルの保証で解消する。
	Create(ctx context.Context, user *model.User) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// Create はタスクを作成する。検証は呼び出し側で完了していること。
	Create(ctx context.Context, task *model.Task) error

	// ListByUserID はユーザーのタスク一覧を期日昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

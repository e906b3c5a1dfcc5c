package model

import "time"

// Task はユーザーが登録するタスクを表す。
// フォーム送信時に作成され、編集・削除フローは存在しない。
// UserIDは必ず既存のUserレコードを参照する。
type Task struct {
	ID          string
	UserID      string
	TaskName    string
	DueDate     time.Time
	Description string
	CreatedAt   time.Time
}

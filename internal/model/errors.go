// Package model はドメインモデルを定義する。
package model

import "fmt"

// FieldError は入力フィールド単位の検証エラーを表す。
type FieldError struct {
	Field      string // エラーのあったフィールド名
	Constraint string // 違反した制約の説明
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string       // エラーコード
	Message  string       // エラーメッセージ
	Category string       // カテゴリ: auth, validation, system
	Action   string       // ユーザー向け対処方法
	Fields   []FieldError // フィールド単位の検証エラー（検証エラー時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidDueDate   = "INVALID_DUE_DATE"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeStorageFailure   = "STORAGE_FAILURE"
)

// NewValidationFailedError はフィールド検証エラーを生成する。
// どのフィールドがどの制約に違反したかをFieldsに列挙する。
func NewValidationFailedError(fields []FieldError) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "入力内容に誤りがあります。",
		Category: "validation",
		Action:   "各フィールドのエラー内容を確認して修正してください。",
		Fields:   fields,
	}
}

// NewInvalidDueDateError は期日の形式エラーを生成する。
func NewInvalidDueDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDueDate,
		Message:  fmt.Sprintf("期日の形式が正しくありません: %s", value),
		Category: "validation",
		Action:   "期日はMM-DD-YYYY形式（例: 01-15-2024）で入力してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewStorageFailureError は永続化失敗エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewStorageFailureError() *APIError {
	return &APIError{
		Code:     ErrCodeStorageFailure,
		Message:  "データの保存に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

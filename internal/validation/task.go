// Package validation はタスク入力の検証ルールを提供する。
package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/hitoshi/taskboard/internal/model"
)

// タスク入力の文字数制約
const (
	TaskNameMinLen    = 3
	TaskNameMaxLen    = 100
	DueDateMinLen     = 3
	DueDateMaxLen     = 10
	DescriptionMaxLen = 1000
)

// TaskInput は検証対象のタスク入力値。
type TaskInput struct {
	TaskName    string
	DueDate     string
	Description string
}

// ValidateTask はタスク入力のフィールド制約を検証し、
// 違反したフィールドとその制約の一覧を返す。違反がなければnilを返す。
// 期日の日付形式の検証は文字数チェックのみで、厳密な形式は
// task.ParseDueDateが別途検証する。
func ValidateTask(in TaskInput) []model.FieldError {
	var fields []model.FieldError

	if n := utf8.RuneCountInString(in.TaskName); n < TaskNameMinLen || n > TaskNameMaxLen {
		fields = append(fields, model.FieldError{
			Field:      "task_name",
			Constraint: fmt.Sprintf("%d文字以上%d文字以内で入力してください。", TaskNameMinLen, TaskNameMaxLen),
		})
	}

	if n := utf8.RuneCountInString(in.DueDate); n < DueDateMinLen || n > DueDateMaxLen {
		fields = append(fields, model.FieldError{
			Field:      "due_date",
			Constraint: fmt.Sprintf("%d文字以上%d文字以内で入力してください。", DueDateMinLen, DueDateMaxLen),
		})
	}

	if n := utf8.RuneCountInString(in.Description); n > DescriptionMaxLen {
		fields = append(fields, model.FieldError{
			Field:      "description",
			Constraint: fmt.Sprintf("%d文字以内で入力してください。", DescriptionMaxLen),
		})
	}

	return fields
}

// Remaining はフォームUIに表示する残り文字数を返す。
// 表示専用の導出値であり、検証には使用しない。上限超過時は負の値になる。
func Remaining(limit, length int) int {
	return limit - length
}

// Package task はタスク作成のドメインロジックを提供する。
package task

import (
	"regexp"
	"strconv"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

// dueDatePattern は期日文字列の形式。
// 月1〜2桁、日1〜2桁、年4桁をハイフンで区切る（M-D-YYYY / MM-DD-YYYY）。
var dueDatePattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)

// ParseDueDate は "MM-DD-YYYY" 形式の文字列をカレンダー日付に変換する。
// 月は1〜12、日は1〜31の範囲であること。形式に合わない場合は
// INVALID_DUE_DATEエラーを返し、呼び出し側は永続化を行わずに中断する。
//
// 月の実日数を超える日（例: 02-30-2024）は拒否せず、カレンダーの
// 繰り上がりで正規化する（02-30-2024 → 2024-03-01）。
func ParseDueDate(s string) (time.Time, error) {
	m := dueDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, model.NewInvalidDueDateError(s)
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, model.NewInvalidDueDateError(s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

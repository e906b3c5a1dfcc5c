package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
	"github.com/hitoshi/taskboard/internal/validation"
)

// ViewCache はタスク一覧のビューキャッシュインターフェース。
type ViewCache interface {
	Get(ctx context.Context, userID, path string) ([]*model.Task, bool, error)
	Set(ctx context.Context, userID, path string, tasks []*model.Task) error
	Invalidate(ctx context.Context, userID, path string) error
}

// MetricsRecorder はタスク操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordTaskCreated(userID string)
	RecordValidationFailure(field string)
	RecordTaskCreateLatency(duration time.Duration)
}

// CreateInput はタスク作成フォームの入力値。
// PathNameはフォームが表示されていたビューのパスで、
// 作成成功後にそのビューのキャッシュを無効化するために使用する。
type CreateInput struct {
	TaskName    string
	DueDate     string
	Description string
	PathName    string
}

// Service はタスク作成・一覧のサービス層。
type Service struct {
	taskRepo repository.TaskRepository
	cache    ViewCache
	metrics  MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// cacheとmetricsはnilを許容し、nilの場合はキャッシュなし・メトリクスなしで動作する。
func NewService(taskRepo repository.TaskRepository, cache ViewCache, metrics MetricsRecorder) *Service {
	return &Service{
		taskRepo: taskRepo,
		cache:    cache,
		metrics:  metrics,
	}
}

// Create はタスクを検証して作成する。
// 検証の順序: 認証確認 → フィールド制約 → 期日の形式。
// いずれかで失敗した場合は永続化を行わずAPIErrorを返す。
// 作成成功後はPathNameで指定されたビューのキャッシュを無効化する。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*model.Task, error) {
	start := time.Now()

	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}

	fields := validation.ValidateTask(validation.TaskInput{
		TaskName:    in.TaskName,
		DueDate:     in.DueDate,
		Description: in.Description,
	})
	if len(fields) > 0 {
		if s.metrics != nil {
			for _, f := range fields {
				s.metrics.RecordValidationFailure(f.Field)
			}
		}
		return nil, model.NewValidationFailedError(fields)
	}

	dueDate, err := ParseDueDate(in.DueDate)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure("due_date")
		}
		return nil, err
	}

	task := &model.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		TaskName:    in.TaskName,
		DueDate:     dueDate,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		slog.Error("failed to persist task",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewStorageFailureError()
	}

	if s.cache != nil && in.PathName != "" {
		// キャッシュ無効化の失敗はタスク作成自体の失敗にはしない
		if err := s.cache.Invalidate(ctx, userID, in.PathName); err != nil {
			slog.Warn("failed to invalidate view cache",
				slog.String("user_id", userID),
				slog.String("path", in.PathName),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordTaskCreated(userID)
		s.metrics.RecordTaskCreateLatency(time.Since(start))
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", userID),
		slog.String("due_date", dueDate.Format("2006-01-02")),
	)

	return task, nil
}

// List はユーザーのタスク一覧をキャッシュ経由で取得する。
// pathは表示中のビューのパスで、キャッシュキーの一部になる。
// キャッシュが無効またはミスの場合はリポジトリから取得して埋める。
func (s *Service) List(ctx context.Context, userID, path string) ([]*model.Task, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError()
	}

	if s.cache != nil {
		tasks, hit, err := s.cache.Get(ctx, userID, path)
		if err != nil {
			slog.Warn("failed to read view cache",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		} else if hit {
			return tasks, nil
		}
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, path, tasks); err != nil {
			slog.Warn("failed to fill view cache",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return tasks, nil
}

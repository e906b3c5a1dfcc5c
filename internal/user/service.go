// Package user はユーザープロビジョニングのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// MetricsRecorder はプロビジョニングのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordUserProvisioned()
}

// Service はユーザープロビジョニングのサービス層。
// 初回サインイン時のUserレコード作成を提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		metrics:  metrics,
	}
}

// NewCandidate は外部IdPのユーザー情報からUserレコードの候補を組み立てる。
// 表示名は姓がある場合に「名 姓」、ない場合は名のみとなる。
func NewCandidate(identity model.Identity) *model.User {
	return &model.User{
		ID:       identity.ID,
		Username: identity.Username,
		Name:     identity.DisplayName(),
	}
}

// Provision は外部IDに対応するUserレコードがなければ作成する。
// 同一IDに対して何度呼ばれてもレコードは1件しか作成されない。
// 存在確認と作成の間に別リクエストが同じIDを作成しても、
// ストレージ側のON CONFLICT DO NOTHINGにより重複は発生しない。
func (s *Service) Provision(ctx context.Context, identity model.Identity) error {
	if identity.ID == "" {
		return fmt.Errorf("identity ID is required")
	}

	exists, err := s.userRepo.ExistsByID(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("ユーザーの存在確認に失敗しました: %w", err)
	}
	if exists {
		return nil
	}

	candidate := NewCandidate(identity)
	candidate.CreatedAt = time.Now().UTC()

	if err := s.userRepo.Create(ctx, candidate); err != nil {
		return fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordUserProvisioned()
	}

	slog.Info("new user provisioned",
		slog.String("user_id", candidate.ID),
		slog.String("username", candidate.Username),
	)

	return nil
}

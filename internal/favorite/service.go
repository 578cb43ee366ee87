// Package favorite はお気に入りAPODの保存・一覧・削除サービスを提供する。
package favorite

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/repository"
)

// storeTimeout はストア呼び出し1回あたりのタイムアウト。
// 外部ストアの遅延が1回の操作を無期限に待たせないための保守的な上限。
const storeTimeout = 5 * time.Second

// SaveResult は保存操作の結果種別。
type SaveResult string

const (
	// SaveCreated は新規レコードが作成されたことを示す。
	SaveCreated SaveResult = "created"
	// SaveReplaced は既存レコードが上書きされたことを示す（後勝ちポリシー）。
	SaveReplaced SaveResult = "replaced"
)

// RepoProvider はFavoriteRepositoryを返す関数。
// リソーススロット（cache.Resource）経由でプロセス内に1つだけ保持される
// DB接続からリポジトリを構築する。呼び出しごとに新しい接続を
// 作ってはならない。ストアが未設定・到達不能の場合はエラーを返す。
type RepoProvider func() (repository.FavoriteRepository, error)

// Disabled はお気に入り機能が無効な構成で使用するRepoProvider。
// すべての操作がmodel.ErrStoreUnavailableになる。
func Disabled() (repository.FavoriteRepository, error) {
	return nil, model.ErrStoreUnavailable
}

// Service はお気に入りのドメインサービス。
// ストア障害は型付きのエラーとして返し、プロセスを停止させることはない。
type Service struct {
	repoFn RepoProvider
	logger *slog.Logger
	now    func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repoFn RepoProvider, logger *slog.Logger) *Service {
	return &Service{
		repoFn: repoFn,
		logger: logger,
		now:    time.Now,
	}
}

// Save はAPODをお気に入りに保存する。
// 同一 (user_id, apod_date) への再保存は上書き（後勝ち）となり、
// レコードが重複することはない。
// ストアが利用できない場合はmodel.ErrStoreUnavailableを返す。
func (s *Service) Save(ctx context.Context, userID string, item *model.Apod) (SaveResult, error) {
	repo, err := s.acquireRepo()
	if err != nil {
		return "", err
	}

	apodDate, err := model.ParseAPODDate(item.Date)
	if err != nil {
		return "", err
	}

	record := &model.FavoriteRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		ApodDate:     apodDate,
		Title:        item.Title,
		Explanation:  item.Explanation,
		MediaType:    item.MediaType,
		URL:          item.URL,
		HDURL:        item.HDURL,
		ThumbnailURL: item.ThumbnailURL,
		Copyright:    item.Copyright,
		SavedAt:      s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	created, err := repo.Upsert(ctx, record)
	if err != nil {
		s.logger.Error("favorite save failed",
			slog.String("user_id", userID),
			slog.String("apod_date", item.Date),
			slog.String("error", err.Error()),
		)
		return "", model.ErrStoreUnavailable
	}

	if created {
		return SaveCreated, nil
	}
	return SaveReplaced, nil
}

// List はユーザーのお気に入り一覧をsaved_atの降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.FavoriteRecord, error) {
	repo, err := s.acquireRepo()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	records, err := repo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("favorite list failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, model.ErrStoreUnavailable
	}
	return records, nil
}

// Remove は指定キーのお気に入りを削除する。
// 対象が存在しない場合はmodel.ErrNotFoundを返す。
func (s *Service) Remove(ctx context.Context, userID string, apodDate time.Time) error {
	repo, err := s.acquireRepo()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := repo.Delete(ctx, userID, apodDate); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		s.logger.Error("favorite remove failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.ErrStoreUnavailable
	}
	return nil
}

// acquireRepo はリポジトリを取得する。取得失敗はStoreUnavailableに翻訳する。
func (s *Service) acquireRepo() (repository.FavoriteRepository, error) {
	repo, err := s.repoFn()
	if err != nil {
		if !errors.Is(err, model.ErrStoreUnavailable) {
			s.logger.Error("favorite store handle unavailable",
				slog.String("error", err.Error()),
			)
		}
		return nil, model.ErrStoreUnavailable
	}
	return repo, nil
}

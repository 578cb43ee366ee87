// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// FavoriteRepository はお気に入りデータの永続化インターフェース。
// (user_id, apod_date) のユニーク制約はストア側のユニークインデックスで
// 保証され、同一キーへの保存は必ず1レコードに収束する。
type FavoriteRepository interface {
	// Upsert はお気に入りを保存する。既存の (user_id, apod_date) が
	// ある場合はフィールドとsaved_atを上書きする（後勝ち）。
	// 戻り値は新規作成ならtrue、上書きならfalse。
	Upsert(ctx context.Context, record *model.FavoriteRecord) (created bool, err error)

	// ListByUserID はユーザーのお気に入り一覧をsaved_atの降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.FavoriteRecord, error)

	// Delete は指定キーのお気に入りを削除する。
	// 対象が存在しない場合はmodel.ErrNotFoundを返す。
	Delete(ctx context.Context, userID string, apodDate time.Time) error
}

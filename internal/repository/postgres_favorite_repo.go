package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Upsert はお気に入りを保存する。既存の (user_id, apod_date) がある場合は
// フィールドとsaved_atを上書きする。ユニークインデックスとON CONFLICTにより、
// 同一キーのレコードが2件になることはない。
// RETURNING句の (xmax = 0) は挿入された行でのみtrueになるため、
// 新規作成と上書きを1回のラウンドトリップで判別できる。
func (r *PostgresFavoriteRepo) Upsert(ctx context.Context, record *model.FavoriteRecord) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO favorites
		    (id, user_id, apod_date, title, explanation, media_type, url, hdurl, thumbnail_url, copyright, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, apod_date) DO UPDATE SET
		    title = EXCLUDED.title,
		    explanation = EXCLUDED.explanation,
		    media_type = EXCLUDED.media_type,
		    url = EXCLUDED.url,
		    hdurl = EXCLUDED.hdurl,
		    thumbnail_url = EXCLUDED.thumbnail_url,
		    copyright = EXCLUDED.copyright,
		    saved_at = EXCLUDED.saved_at
		 RETURNING (xmax = 0)`,
		record.ID, record.UserID, record.ApodDate, record.Title, record.Explanation,
		record.MediaType, record.URL, record.HDURL, record.ThumbnailURL,
		record.Copyright, record.SavedAt,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("お気に入りの保存に失敗しました: %w", err)
	}
	return created, nil
}

// ListByUserID はユーザーのお気に入り一覧をsaved_atの降順で返す。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.FavoriteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, apod_date, title, explanation, media_type, url, hdurl, thumbnail_url, copyright, saved_at
		 FROM favorites WHERE user_id = $1 ORDER BY saved_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var records []*model.FavoriteRecord
	for rows.Next() {
		rec := &model.FavoriteRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ApodDate, &rec.Title, &rec.Explanation,
			&rec.MediaType, &rec.URL, &rec.HDURL, &rec.ThumbnailURL,
			&rec.Copyright, &rec.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り一覧の走査に失敗しました: %w", err)
	}
	return records, nil
}

// Delete は指定キーのお気に入りを削除する。
// 対象が存在しない場合はmodel.ErrNotFoundを返す。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, userID string, apodDate time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND apod_date = $2`,
		userID, apodDate,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)

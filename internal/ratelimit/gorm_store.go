package ratelimit

import (
	"context"
	"time"

	"github.com/ggorockee/localdirectory/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps counters in rate_limit_counters.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// WithClock 테스트용 시계 주입
func (s *GormStore) WithClock(now func() time.Time) *GormStore {
	s.now = now
	return s
}

func (s *GormStore) Increment(ctx context.Context, key, scope string, window time.Duration) (int64, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	var row models.RateLimitCounter

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.bump(tx, key, now, window)
		if err != nil {
			return err
		}
		if updated == 0 {
			// 첫 요청: count 0으로 생성 후 증가
			seed := models.RateLimitCounter{Key: key, Scope: scope, ResetAt: now.Add(window)}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return err
			}
			if _, err := s.bump(tx, key, now, window); err != nil {
				return err
			}
		}
		return tx.Where("counter_key = ?", key).Take(&row).Error
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return row.Count, row.ResetAt, nil
}

// bump increments in place, restarting the window when it has ended.
func (s *GormStore) bump(tx *gorm.DB, key string, now time.Time, window time.Duration) (int64, error) {
	res := tx.Model(&models.RateLimitCounter{}).
		Where("counter_key = ?", key).
		Updates(map[string]interface{}{
			"count":      gorm.Expr("CASE WHEN reset_at <= ? THEN 1 ELSE count + 1 END", now),
			"reset_at":   gorm.Expr("CASE WHEN reset_at <= ? THEN ? ELSE reset_at END", now, now.Add(window)),
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// Purge 종료된 윈도우의 카운터 삭제
func (s *GormStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("reset_at <= ?", s.now().UTC()).
		Delete(&models.RateLimitCounter{})
	return res.RowsAffected, res.Error
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ggorockee/localdirectory/internal/cache"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/telemetry"
)

// CounterPurger drops rate-limit counters whose window has ended.
type CounterPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// CacheMaintenance 만료 캐시 정리 및 통계
type CacheMaintenance struct {
	store    cache.Store
	counters CounterPurger
	metrics  *telemetry.Pipeline
}

// NewCacheMaintenance 새로운 CacheMaintenance 생성
func NewCacheMaintenance(store cache.Store, metrics *telemetry.Pipeline) *CacheMaintenance {
	return &CacheMaintenance{store: store, metrics: metrics}
}

// WithCounterPurger adds rate-limit counter purging to the scheduled run.
// Stores that expire keys themselves (Redis) need none.
func (m *CacheMaintenance) WithCounterPurger(p CounterPurger) *CacheMaintenance {
	m.counters = p
	return m
}

// CleanupExpiredCache 만료된 캐시 항목 삭제
// 삭제 조건: expires_at <= NOW
func (m *CacheMaintenance) CleanupExpiredCache(ctx context.Context) (*cache.SweepResult, error) {
	log := logger.GetLogger("cache.cleanup")
	start := time.Now()

	log.Info("===== 만료 캐시 정리 시작 =====")

	res, err := m.store.Sweep(ctx)
	m.metrics.RecordCleanup(ctx, deletedOf(res), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("cleanup expired cache: %w", err)
	}

	log.Infof("삭제 완료: %d건 삭제, 남은 항목 %d건, 가장 오래된 항목 %d일",
		res.DeletedEntries, res.TotalEntries, res.OldestEntryAge)
	log.Info("===== 만료 캐시 정리 종료 =====")
	return res, nil
}

func deletedOf(res *cache.SweepResult) int64 {
	if res == nil {
		return 0
	}
	return res.DeletedEntries
}

// GetCacheStats 캐시 항목 수, 용량, 인덱스 목록
func (m *CacheMaintenance) GetCacheStats(ctx context.Context) (*cache.Stats, error) {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Ping 저장소 연결 확인
func (m *CacheMaintenance) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// PurgeRateLimitCounters 종료된 윈도우의 카운터 삭제. purger가 없으면 0
func (m *CacheMaintenance) PurgeRateLimitCounters(ctx context.Context) (int64, error) {
	if m.counters == nil {
		return 0, nil
	}
	n, err := m.counters.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge rate limit counters: %w", err)
	}
	if n > 0 {
		logger.GetLogger("cache.cleanup").Infof("만료된 요청 제한 카운터 %d건 삭제", n)
	}
	return n, nil
}

// RunSchedule sweeps the cache and purges ended rate-limit windows every
// interval until ctx is cancelled. Failures are logged and the loop keeps
// going.
func (m *CacheMaintenance) RunSchedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logger.GetLogger("cache.cleanup")
	log.Infof("Cache cleanup scheduled every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.CleanupExpiredCache(ctx); err != nil {
				log.Errorf("Scheduled cache cleanup failed: %v", err)
			}
			if _, err := m.PurgeRateLimitCounters(ctx); err != nil {
				log.Errorf("Scheduled counter purge failed: %v", err)
			}
		}
	}
}

package cache

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/ggorockee/localdirectory/internal/models"
	"github.com/ggorockee/localdirectory/internal/places"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore Store 구현 (PostgreSQL, SQLite)
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// Option GormStore 옵션
type Option func(*GormStore)

// WithClock 테스트용 시계 주입
func WithClock(now func() time.Time) Option {
	return func(s *GormStore) { s.now = now }
}

// NewGormStore ttl이 0 이하면 DefaultTTL 사용
func NewGormStore(db *gorm.DB, ttl time.Duration, opts ...Option) *GormStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &GormStore{db: db, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL 설정된 캐시 유효 기간
func (s *GormStore) TTL() time.Duration { return s.ttl }

// clock 저장 정밀도는 초 단위 (SQLite 문자열 비교 일관성)
func (s *GormStore) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *GormStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var row models.PlacesCache
	err := s.db.WithContext(ctx).
		Where("query = ? AND expires_at > ?", key, s.clock()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("get", err)
	}

	entry := &Entry{
		Key:         row.Query,
		Results:     row.Results,
		Metadata:    Metadata{Status: row.Status},
		LastUpdated: row.LastUpdated,
		ExpiresAt:   row.ExpiresAt,
	}
	if entry.Results == nil {
		entry.Results = []places.Business{}
	}
	if row.NextPageToken != nil {
		entry.Metadata.NextPageToken = *row.NextPageToken
	}
	return entry, true, nil
}

func (s *GormStore) Lookup(ctx context.Context, key string, page, pageSize int) (*PageResult, bool, error) {
	if page < 1 || pageSize < 1 {
		return nil, false, ErrInvalidPagination
	}

	entry, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	items, totalPages, err := Paginate(entry.Results, page, pageSize)
	if err != nil {
		return nil, false, err
	}
	return &PageResult{
		Items:       items,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalItems:  len(entry.Results),
	}, true, nil
}

// Upsert replaces the whole entry for key in one statement. Concurrent writers
// for the same key leave exactly one row holding the last write.
func (s *GormStore) Upsert(ctx context.Context, key string, results []places.Business, meta Metadata) error {
	stored := make([]places.Business, len(results))
	copy(stored, results)
	for i := range stored {
		places.StripDerived(&stored[i])
	}

	now := s.clock()
	row := models.PlacesCache{
		Query:       key,
		Results:     stored,
		ResultCount: len(stored),
		Status:      meta.Status,
		LastUpdated: now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if meta.NextPageToken != "" {
		token := meta.NextPageToken
		row.NextPageToken = &token
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "query"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"results", "result_count", "status", "next_page_token", "last_updated", "expires_at",
			}),
		}).
		Create(&row).Error
	return wrap("upsert", err)
}

// Sweep deletes entries with expires_at <= now and reports what remains.
func (s *GormStore) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock()
	db := s.db.WithContext(ctx)

	res := db.Where("expires_at <= ?", now).Delete(&models.PlacesCache{})
	if res.Error != nil {
		return nil, wrap("sweep", res.Error)
	}

	out := &SweepResult{DeletedEntries: res.RowsAffected}
	if err := db.Model(&models.PlacesCache{}).Count(&out.TotalEntries).Error; err != nil {
		return nil, wrap("sweep count", err)
	}

	var oldest models.PlacesCache
	err := db.Select("id", "last_updated").Order("last_updated ASC").Take(&oldest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, wrap("sweep oldest", err)
	default:
		out.OldestEntryAge = int64(now.Sub(oldest.LastUpdated) / (24 * time.Hour))
	}
	return out, nil
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	out := &Stats{Indexes: []string{}}

	if err := db.Model(&models.PlacesCache{}).Count(&out.TotalEntries).Error; err != nil {
		return nil, wrap("stats count", err)
	}

	var row *sql.Row
	if db.Dialector.Name() == "postgres" {
		row = db.Raw("SELECT pg_total_relation_size(?)", models.PlacesCache{}.TableName()).Row()
	} else {
		row = db.Model(&models.PlacesCache{}).Select("COALESCE(SUM(LENGTH(results)), 0)").Row()
	}
	if err := row.Scan(&out.TotalSize); err != nil {
		return nil, wrap("stats size", err)
	}

	indexes, err := db.Migrator().GetIndexes(&models.PlacesCache{})
	if err != nil {
		return nil, wrap("stats indexes", err)
	}
	for _, idx := range indexes {
		out.Indexes = append(out.Indexes, idx.Name())
	}
	sort.Strings(out.Indexes)
	return out, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	return wrap("ping", sqlDB.PingContext(ctx))
}

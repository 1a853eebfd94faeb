package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ggorockee/localdirectory/internal/places"
	"github.com/ggorockee/localdirectory/internal/resilience"
)

// DefaultTTL 캐시 유효 기간 (180일)
const DefaultTTL = 180 * 24 * time.Hour

// Metadata 업스트림 상태 정보
type Metadata struct {
	Status        string `json:"status"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Entry 캐시된 전체 결과 집합
type Entry struct {
	Key         string
	Results     []places.Business
	Metadata    Metadata
	LastUpdated time.Time
	ExpiresAt   time.Time
}

// PageResult 페이지 단위 조회 결과
type PageResult struct {
	Items       []places.Business `json:"items"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	TotalItems  int               `json:"total_items"`
}

// SweepResult 만료 항목 정리 결과
type SweepResult struct {
	TotalEntries   int64 `json:"totalEntries"`
	OldestEntryAge int64 `json:"oldestEntryAge"`
	DeletedEntries int64 `json:"deletedEntries"`
}

// Stats 캐시 저장소 통계
type Stats struct {
	TotalEntries int64    `json:"totalEntries"`
	TotalSize    int64    `json:"totalSize"`
	Indexes      []string `json:"indexes"`
}

// Store is the persistent result cache. An entry whose ExpiresAt has passed is
// treated as absent by every read, whether or not Sweep has removed it.
type Store interface {
	Lookup(ctx context.Context, key string, page, pageSize int) (*PageResult, bool, error)
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Upsert(ctx context.Context, key string, results []places.Business, meta Metadata) error
	Sweep(ctx context.Context) (*SweepResult, error)
	Stats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
}

// Error wraps a failure talking to the backing store. All store errors are
// considered transient.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 재시도 판단용 에러 코드
func (e *Error) Code() string { return resilience.CodeStoreConnection }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

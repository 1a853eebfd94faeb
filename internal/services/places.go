package services

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"

	"github.com/ggorockee/localdirectory/internal/cache"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/places"
	"github.com/ggorockee/localdirectory/internal/resilience"
	"github.com/ggorockee/localdirectory/internal/telemetry"
)

const (
	getPlacesKey = "places.getPlaces"

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// 응답 출처
const (
	SourceCache    = "cache"
	SourceUpstream = "upstream"
	SourcePartial  = "partial"
)

// Fetcher 업스트림 페이지 수집 (places.Adapter)
type Fetcher interface {
	FetchPage(ctx context.Context, query, pageToken string, userLocation *places.LatLng) (*places.Page, error)
	FetchAllPages(ctx context.Context, query string, userLocation *places.LatLng) (*places.Page, error)
}

// PlacesQuery 조회 조건
type PlacesQuery struct {
	Keyword      string         `json:"keyword"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	Page         int            `json:"page"`
	Limit        int            `json:"limit"`
	UserLocation *places.LatLng `json:"-"`
}

// PlacesResponse 페이지 응답. Unavailable이면 Items는 빈 배열
type PlacesResponse struct {
	Items       []places.Business `json:"items"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	TotalItems  int               `json:"total_items"`
	Unavailable bool              `json:"unavailable,omitempty"`
	Source      string            `json:"source,omitempty"`
}

// PlacesServiceConfig PlacesService 의존성 및 설정
type PlacesServiceConfig struct {
	Store    cache.Store
	Fetcher  Fetcher
	Breaker  *resilience.CircuitBreaker
	Boundary *resilience.ErrorBoundary
	Metrics  *telemetry.Pipeline

	// HotTTL 0이면 인메모리 계층 비활성화
	HotTTL      time.Duration
	HotCapacity int
	StoreRetry  resilience.RetryConfig
	Now         func() time.Time
}

// resolved is one full result set as held by the hot tier.
type resolved struct {
	entry  *cache.Entry
	source string
}

// expired reports whether a store-backed entry has passed its expiry. Fresh
// upstream results carry no expiry of their own.
func (r *resolved) expired(now time.Time) bool {
	return !r.entry.ExpiresAt.IsZero() && !now.Before(r.entry.ExpiresAt)
}

// PlacesService answers directory queries from the hot tier, the persistent
// store or the upstream source, in that order.
type PlacesService struct {
	store      cache.Store
	fetcher    Fetcher
	breaker    *resilience.CircuitBreaker
	boundary   *resilience.ErrorBoundary
	metrics    *telemetry.Pipeline
	hot        *sturdyc.Client[*resolved]
	storeRetry resilience.RetryConfig
	now        func() time.Time
}

func NewPlacesService(cfg PlacesServiceConfig) *PlacesService {
	s := &PlacesService{
		store:      cfg.Store,
		fetcher:    cfg.Fetcher,
		breaker:    cfg.Breaker,
		boundary:   cfg.Boundary,
		metrics:    cfg.Metrics,
		storeRetry: cfg.StoreRetry,
		now:        cfg.Now,
	}
	if s.breaker == nil {
		s.breaker = resilience.NewCircuitBreaker(resilience.BreakerConfig{})
	}
	if s.boundary == nil {
		s.boundary = resilience.NewErrorBoundary(resilience.BoundaryConfig{})
	}
	if s.storeRetry.MaxRetries == 0 && s.storeRetry.BaseDelay == 0 {
		s.storeRetry = resilience.DefaultRetryConfig()
	}
	if s.storeRetry.Name == "" {
		s.storeRetry.Name = "cache.upsert"
	}
	if s.now == nil {
		s.now = time.Now
	}
	if cfg.HotTTL > 0 {
		capacity := cfg.HotCapacity
		if capacity <= 0 {
			capacity = 1000
		}
		s.hot = sturdyc.New[*resolved](capacity, 10, cfg.HotTTL, 10)
	}
	return s
}

func (q *PlacesQuery) applyDefaults() {
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
}

// Validate 페이지 번호와 크기, 필수 검색어 검증
func (q PlacesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Keyword, validation.Required),
		validation.Field(&q.City, validation.Required),
		validation.Field(&q.Page, validation.Min(1)),
		validation.Field(&q.Limit, validation.Min(1), validation.Max(maxLimit)),
	)
}

// GetPlaces returns one page of results. Only invalid input produces an
// error; upstream or store trouble degrades to an empty unavailable page.
func (s *PlacesService) GetPlaces(ctx context.Context, q PlacesQuery) (*PlacesResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "places.GetPlaces")
	defer span.End()

	q.applyDefaults()
	if err := q.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	text := cache.QueryText(q.Keyword, q.City, q.State)
	key := cache.NormalizeKey(text)

	degraded := func(ctx context.Context, cause error) (*PlacesResponse, error) {
		return s.unavailable(ctx, q.Page, cause), nil
	}

	resp, err := resilience.Wrap(ctx, s.boundary, getPlacesKey, func(ctx context.Context) (*PlacesResponse, error) {
		return resilience.Execute(ctx, s.breaker, getPlacesKey, func(ctx context.Context) (*PlacesResponse, error) {
			r, err := s.resolve(ctx, key, text)
			if err != nil {
				return nil, err
			}
			return s.page(r, q)
		})
	}, degraded)
	s.metrics.RecordBreakerState(ctx, getPlacesKey, int64(s.breaker.State(getPlacesKey)))
	if err != nil {
		return s.unavailable(ctx, q.Page, err), nil
	}
	return resp, nil
}

// Prefetch resolves and caches the full result set for a query without
// serving it. It returns the number of cached results.
func (s *PlacesService) Prefetch(ctx context.Context, keyword, city, state string) (int, error) {
	text := cache.QueryText(keyword, city, state)
	r, err := s.resolve(ctx, cache.NormalizeKey(text), text)
	if err != nil {
		return 0, err
	}
	return len(r.entry.Results), nil
}

func (s *PlacesService) resolve(ctx context.Context, key, text string) (*resolved, error) {
	if s.hot == nil {
		return s.load(ctx, key, text)
	}

	loaded := false
	fetch := func(ctx context.Context) (*resolved, error) {
		loaded = true
		return s.load(ctx, key, text)
	}
	r, err := s.hot.GetOrFetch(ctx, key, fetch)
	if err == nil && !loaded && r.expired(s.now()) {
		// 저장소 항목이 인메모리 TTL보다 먼저 만료됨
		s.hot.Delete(key)
		r, err = s.hot.GetOrFetch(ctx, key, fetch)
	}
	if err != nil {
		return nil, err
	}
	if r.source == SourcePartial {
		// 부분 결과는 공유하지 않음
		s.hot.Delete(key)
	}
	if !loaded && r.source != SourcePartial {
		return &resolved{entry: r.entry, source: SourceCache}, nil
	}
	return r, nil
}

// load reads the store and, on a miss, fetches every upstream page. When the
// full fetch fails the first page alone is served and nothing is cached.
func (s *PlacesService) load(ctx context.Context, key, text string) (*resolved, error) {
	log := logger.GetLogger("places.service")

	entry, ok, err := s.store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warnf("cache read failed for %q, treating as miss: %v", key, err)
		s.metrics.RecordCacheLookup(ctx, "error")
	case ok:
		s.metrics.RecordCacheLookup(ctx, "hit")
		return &resolved{entry: entry, source: SourceCache}, nil
	default:
		s.metrics.RecordCacheLookup(ctx, "miss")
	}

	partial := false
	page, err := resilience.Fallback(ctx, func(ctx context.Context) (*places.Page, error) {
		return s.fetcher.FetchAllPages(ctx, text, nil)
	}, resilience.FallbackConfig[*places.Page]{
		FallbackFn: func(ctx context.Context, _ error) (*places.Page, error) {
			partial = true
			return s.fetcher.FetchPage(ctx, text, "", nil)
		},
		OnFallback: func(cause error) {
			log.Warnf("full fetch failed for %q, falling back to first page: %v", text, cause)
			s.metrics.RecordFallback(ctx, "first_page")
		},
	})
	if err != nil {
		return nil, err
	}

	results := page.Results
	if results == nil {
		results = []places.Business{}
	}
	for i := range results {
		places.StripDerived(&results[i])
	}
	meta := cache.Metadata{Status: page.Status, NextPageToken: page.NextPageToken}
	out := &resolved{
		entry: &cache.Entry{
			Key:         key,
			Results:     results,
			Metadata:    meta,
			LastUpdated: s.now(),
		},
		source: SourceUpstream,
	}
	if partial {
		out.source = SourcePartial
		return out, nil
	}

	_, err = resilience.Retry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.Upsert(ctx, key, results, meta)
	}, s.storeRetry)
	if err != nil {
		log.Errorf("cache write failed for %q, serving uncached results: %v", key, err)
	}
	return out, nil
}

// page slices and enriches a private copy; the shared entry is never touched.
func (s *PlacesService) page(r *resolved, q PlacesQuery) (*PlacesResponse, error) {
	items, totalPages, err := cache.Paginate(r.entry.Results, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]places.Business, len(items))
	copy(out, items)
	for i := range out {
		places.Enrich(&out[i], q.UserLocation, now)
	}

	return &PlacesResponse{
		Items:       out,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		TotalItems:  len(r.entry.Results),
		Source:      r.source,
	}, nil
}

func (s *PlacesService) unavailable(ctx context.Context, page int, cause error) *PlacesResponse {
	reason := "error"
	switch {
	case errors.Is(cause, resilience.ErrCircuitOpen):
		reason = "circuit_open"
	case errors.Is(cause, resilience.ErrBoundaryTripped):
		reason = "boundary_tripped"
	case errors.Is(cause, resilience.ErrTimeout):
		reason = "timeout"
	}
	logger.GetLogger("places.service").Warnf("serving unavailable response (%s): %v", reason, cause)
	s.metrics.RecordDegraded(ctx, reason)

	return &PlacesResponse{
		Items:       []places.Business{},
		TotalPages:  0,
		CurrentPage: page,
		Unavailable: true,
	}
}

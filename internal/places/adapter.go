package places

import (
	"context"
	"time"

	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/resilience"
	"github.com/ggorockee/localdirectory/internal/telemetry"
)

// Searcher is the upstream text-search contract.
type Searcher interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*RawResponse, error)
}

// AdapterConfig 페이지 수집 설정
type AdapterConfig struct {
	// PageDelay is the pause before each continuation request; page tokens
	// only become valid a short while after they are issued.
	PageDelay      time.Duration
	MaxPages       int
	RequestTimeout time.Duration
	Retry          resilience.RetryConfig
	Now            func() time.Time
	Metrics        *telemetry.Pipeline
}

// Adapter turns upstream pages into canonical records.
type Adapter struct {
	searcher Searcher
	cfg      AdapterConfig
}

// NewAdapter 새 Adapter 생성
func NewAdapter(searcher Searcher, cfg AdapterConfig) *Adapter {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.BaseDelay == 0 {
		cfg.Retry = resilience.DefaultRetryConfig()
	}
	if cfg.Retry.Name == "" {
		cfg.Retry.Name = "places.fetchPage"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Adapter{searcher: searcher, cfg: cfg}
}

func (a *Adapter) search(ctx context.Context, req TextSearchRequest) (*RawResponse, error) {
	return resilience.Retry(ctx, func(ctx context.Context) (*RawResponse, error) {
		return resilience.Timeout(ctx, func(ctx context.Context) (*RawResponse, error) {
			start := time.Now()
			resp, err := a.searcher.TextSearch(ctx, req)
			if err != nil {
				a.cfg.Metrics.RecordUpstream(ctx, "error", time.Since(start))
				return nil, err
			}
			a.cfg.Metrics.RecordUpstream(ctx, resp.Status, time.Since(start))

			switch resp.Status {
			case StatusOK, StatusZeroResults:
				return resp, nil
			default:
				return nil, statusError(resp)
			}
		}, a.cfg.RequestTimeout)
	}, a.cfg.Retry)
}

// FetchPage requests one page. ZERO_RESULTS yields an empty page. Distance is
// filled when userLocation is given.
func (a *Adapter) FetchPage(ctx context.Context, query, pageToken string, userLocation *LatLng) (*Page, error) {
	resp, err := a.search(ctx, TextSearchRequest{
		Query:     query,
		Location:  userLocation,
		PageToken: pageToken,
	})
	if err != nil {
		return nil, err
	}

	now := a.cfg.Now()
	page := &Page{
		Results:       make([]Business, 0, len(resp.Results)),
		Status:        resp.Status,
		NextPageToken: resp.NextPageToken,
	}
	for _, raw := range resp.Results {
		b := Transform(raw)
		Enrich(&b, userLocation, now)
		page.Results = append(page.Results, b)
	}
	return page, nil
}

// FetchAllPages follows continuation tokens strictly in sequence, up to
// MaxPages pages, and returns the accumulated results in upstream order.
func (a *Adapter) FetchAllPages(ctx context.Context, query string, userLocation *LatLng) (*Page, error) {
	log := logger.GetLogger("places.adapter")

	first, err := a.FetchPage(ctx, query, "", userLocation)
	if err != nil {
		return nil, err
	}

	all := &Page{
		Results:       first.Results,
		Status:        first.Status,
		NextPageToken: first.NextPageToken,
	}
	for pages := 1; all.NextPageToken != "" && pages < a.cfg.MaxPages; pages++ {
		if err := sleep(ctx, a.cfg.PageDelay); err != nil {
			return nil, err
		}

		next, err := a.FetchPage(ctx, query, all.NextPageToken, userLocation)
		if err != nil {
			return nil, err
		}
		all.Results = append(all.Results, next.Results...)
		all.Status = next.Status
		all.NextPageToken = next.NextPageToken
	}

	log.Debugf("fetched %d results for %q", len(all.Results), query)
	return all, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

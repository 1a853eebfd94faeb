package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ggorockee/localdirectory/internal/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher serves scripted responses keyed by page token ("" for the first page).
type fakeSearcher struct {
	mu       sync.Mutex
	pages    map[string]*RawResponse
	err      error
	calls    []TextSearchRequest
	callTime []time.Time
}

func (f *fakeSearcher) TextSearch(_ context.Context, req TextSearchRequest) (*RawResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	f.callTime = append(f.callTime, time.Now())
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.pages[req.PageToken]
	if !ok {
		return &RawResponse{Status: "INVALID_REQUEST"}, nil
	}
	return resp, nil
}

func rawPlaces(prefix string, n int) []RawPlace {
	out := make([]RawPlace, n)
	for i := range out {
		out[i] = RawPlace{PlaceID: fmt.Sprintf("%s-%d", prefix, i), Name: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

func fastRetry() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestFetchAllPagesFollowsTokens(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"":   {Status: StatusOK, Results: rawPlaces("a", 15), NextPageToken: "t2"},
		"t2": {Status: StatusOK, Results: rawPlaces("b", 5)},
	}}
	a := NewAdapter(searcher, AdapterConfig{PageDelay: 20 * time.Millisecond, Retry: fastRetry()})

	page, err := a.FetchAllPages(context.Background(), "plumber in Austin, TX", nil)
	require.NoError(t, err)

	require.Len(t, page.Results, 20)
	assert.Equal(t, "a-0", page.Results[0].PlaceID)
	assert.Equal(t, "b-4", page.Results[19].PlaceID)
	assert.Empty(t, page.NextPageToken)

	require.Len(t, searcher.calls, 2)
	assert.Equal(t, "plumber in Austin, TX", searcher.calls[0].Query)
	assert.Equal(t, "t2", searcher.calls[1].PageToken)
	assert.GreaterOrEqual(t, searcher.callTime[1].Sub(searcher.callTime[0]), 20*time.Millisecond)
}

func TestFetchAllPagesStopsAtMaxPages(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"":   {Status: StatusOK, Results: rawPlaces("a", 2), NextPageToken: "t2"},
		"t2": {Status: StatusOK, Results: rawPlaces("b", 2), NextPageToken: "t3"},
		"t3": {Status: StatusOK, Results: rawPlaces("c", 2), NextPageToken: "t4"},
	}}
	a := NewAdapter(searcher, AdapterConfig{MaxPages: 2, Retry: fastRetry()})

	page, err := a.FetchAllPages(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, page.Results, 4)
	assert.Equal(t, "t3", page.NextPageToken)
}

func TestFetchPageZeroResults(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"": {Status: StatusZeroResults},
	}}
	a := NewAdapter(searcher, AdapterConfig{Retry: fastRetry()})

	page, err := a.FetchAllPages(context.Background(), "unicorn groomer in Nowhere, ZZ", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, StatusZeroResults, page.Status)
}

func TestFetchPageQuotaIsRetried(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"": {Status: StatusOverQueryLimit},
	}}
	a := NewAdapter(searcher, AdapterConfig{Retry: fastRetry()})

	_, err := a.FetchPage(context.Background(), "q", "", nil)
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CodeQuotaExceeded, perr.Code())
	assert.True(t, perr.Retryable())
	assert.Len(t, searcher.calls, 4)
}

func TestFetchPageFatalStatusIsNotRetried(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"": {Status: "REQUEST_DENIED", ErrorMessage: "bad key"},
	}}
	a := NewAdapter(searcher, AdapterConfig{Retry: fastRetry()})

	_, err := a.FetchPage(context.Background(), "q", "", nil)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CodeStatus, perr.Code())
	assert.False(t, perr.Retryable())
	assert.Len(t, searcher.calls, 1)
}

func TestFetchPageComputesDistance(t *testing.T) {
	searcher := &fakeSearcher{pages: map[string]*RawResponse{
		"": {Status: StatusOK, Results: []RawPlace{{
			PlaceID:  "p",
			Geometry: &RawGeometry{Location: &LatLng{Lat: 30.2672, Lng: -97.7431}},
		}}},
	}}
	a := NewAdapter(searcher, AdapterConfig{Retry: fastRetry()})

	page, err := a.FetchPage(context.Background(), "q", "", &LatLng{Lat: 32.7767, Lng: -96.7970})
	require.NoError(t, err)
	require.NotNil(t, page.Results[0].Distance)
	assert.InDelta(t, 293.0, *page.Results[0].Distance, 5.0)
	require.NotNil(t, searcher.calls[0].Location)
}

func TestClientTextSearch(t *testing.T) {
	var gotQuery, gotKey, gotToken, gotLocation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("key")
		gotToken = r.URL.Query().Get("pagetoken")
		gotLocation = r.URL.Query().Get("location")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RawResponse{
			Status:        StatusOK,
			Results:       rawPlaces("x", 2),
			NextPageToken: "next",
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Radius: 1000})
	resp, err := c.TextSearch(context.Background(), TextSearchRequest{
		Query:    "plumber in Austin, TX",
		Location: &LatLng{Lat: 1.5, Lng: 2.25},
	})
	require.NoError(t, err)

	assert.Equal(t, "plumber in Austin, TX", gotQuery)
	assert.Equal(t, "k", gotKey)
	assert.Empty(t, gotToken)
	assert.Equal(t, "1.500000,2.250000", gotLocation)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, "next", resp.NextPageToken)
}

func TestClientMapsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := c.TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode())
	assert.True(t, perr.Retryable())
}

func TestClientMapsNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.TextSearch(context.Background(), TextSearchRequest{Query: "q"})

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CodeNetwork, perr.Code())
	assert.True(t, perr.Retryable())
}

package places

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientConfig 업스트림 HTTP 클라이언트 설정
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Radius  int
	Timeout time.Duration
}

// Client calls the upstream text-search endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
	radius int
}

// NewClient 새 클라이언트 생성
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: c, apiKey: cfg.APIKey, radius: cfg.Radius}
}

// TextSearch issues one search request. Only transport and HTTP failures are
// returned as errors; upstream status values are left for the caller.
func (c *Client) TextSearch(ctx context.Context, req TextSearchRequest) (*RawResponse, error) {
	params := map[string]string{
		"key": c.apiKey,
	}
	if req.PageToken != "" {
		params["pagetoken"] = req.PageToken
	} else {
		params["query"] = req.Query
	}
	if req.Location != nil {
		params["location"] = strconv.FormatFloat(req.Location.Lat, 'f', 6, 64) + "," +
			strconv.FormatFloat(req.Location.Lng, 'f', 6, 64)
		radius := req.Radius
		if radius == 0 {
			radius = c.radius
		}
		if radius > 0 {
			params["radius"] = strconv.Itoa(radius)
		}
	}

	var out RawResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/textsearch/json")
	if err != nil {
		return nil, &Error{Kind: CodeNetwork, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &Error{
			Kind:       CodeHTTP,
			HTTPStatus: resp.StatusCode(),
			Message:    fmt.Sprintf("unexpected response: %s", truncate(resp.String(), 200)),
		}
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

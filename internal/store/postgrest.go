// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/chartel/chartel/internal/logging"
	"github.com/chartel/chartel/internal/metrics"
)

// Config configures the PostgREST client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// BreakerFailureThreshold is the consecutive-failure count that opens
	// the circuit; BreakerOpenTimeout is how long it stays open.
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
	// RatePerSecond caps outbound queries client-side; 0 disables the cap.
	RatePerSecond float64
}

type queryResult struct {
	body       []byte
	statusCode int
	count      int
}

// HTTPClient is the production Client: PostgREST wire protocol behind a
// circuit breaker and an optional client-side rate limit.
type HTTPClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	breaker *gobreaker.CircuitBreaker[*queryResult]
	limiter *rate.Limiter
}

// NewHTTPClient builds a client from config. The breaker trips on
// consecutive transport/5xx failures only; client errors (4xx) never count
// against it.
func NewHTTPClient(cfg Config) *HTTPClient {
	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.BreakerOpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*queryResult](gobreaker.Settings{
		Name:    "row-store",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("component", "store").
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Row store circuit breaker state change")
			metrics.StoreBreakerState.Set(breakerStateValue(to))
		},
	})

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), int(cfg.RatePerSecond)+1)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
		breaker: breaker,
		limiter: limiter,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// From starts a query against a relation.
func (c *HTTPClient) From(relation string) Query {
	return &httpQuery{
		client:   c,
		relation: relation,
		params:   url.Values{},
		limit:    -1,
		offset:   -1,
	}
}

type httpQuery struct {
	client   *HTTPClient
	relation string
	params   url.Values
	limit    int
	offset   int
	count    bool
	emptyIn  bool
}

func (q *httpQuery) Select(columns ...string) Query {
	q.params.Set("select", strings.Join(columns, ","))
	return q
}

func (q *httpQuery) Eq(column, value string) Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *httpQuery) Gt(column, value string) Query {
	q.params.Add(column, "gt."+value)
	return q
}

func (q *httpQuery) Gte(column, value string) Query {
	q.params.Add(column, "gte."+value)
	return q
}

func (q *httpQuery) Lte(column, value string) Query {
	q.params.Add(column, "lte."+value)
	return q
}

func (q *httpQuery) In(column string, values []string) Query {
	if len(values) == 0 {
		// in.() is a wire error; an empty set matches nothing, so skip
		// the round trip entirely.
		q.emptyIn = true
		return q
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, ``) + `"`
	}
	q.params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	return q
}

func (q *httpQuery) Order(column string, descending bool) Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.params.Add("order", column+"."+dir+".nullslast")
	return q
}

func (q *httpQuery) Limit(n int) Query {
	q.limit = n
	return q
}

func (q *httpQuery) Offset(n int) Query {
	q.offset = n
	return q
}

func (q *httpQuery) Count() Query {
	q.count = true
	return q
}

func (q *httpQuery) Execute(ctx context.Context, dest interface{}) (int, error) {
	start := time.Now()
	count, err := q.run(ctx, dest)
	metrics.RecordStoreQuery(q.relation, time.Since(start), err)
	return count, err
}

func (q *httpQuery) run(ctx context.Context, dest interface{}) (int, error) {
	if q.emptyIn {
		// Decode an empty row set so dest ends up as an empty slice.
		if dest != nil {
			if err := json.Unmarshal([]byte("[]"), dest); err != nil {
				return 0, fmt.Errorf("decoding empty row set: %w", err)
			}
		}
		return 0, nil
	}

	if q.client.limiter != nil {
		if err := q.client.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("store rate limit wait: %w", err)
		}
	}

	result, err := q.client.breaker.Execute(func() (*queryResult, error) {
		return q.client.roundTrip(ctx, q)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return 0, fmt.Errorf("%w: circuit breaker open", ErrStoreUnavailable)
		}
		return 0, err
	}

	if result.statusCode >= 400 {
		return 0, fmt.Errorf("row store rejected query on %s: status %d", q.relation, result.statusCode)
	}

	if dest != nil {
		if err := json.Unmarshal(result.body, dest); err != nil {
			return 0, fmt.Errorf("decoding rows from %s: %w", q.relation, err)
		}
	}
	return result.count, nil
}

// roundTrip performs one HTTP request. Transport failures and 5xx responses
// return an error (and count against the breaker); 4xx responses return
// normally with the status for the caller to classify.
func (c *HTTPClient) roundTrip(ctx context.Context, q *httpQuery) (*queryResult, error) {
	params := url.Values{}
	for k, vs := range q.params {
		params[k] = vs
	}
	if q.limit >= 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offset >= 0 {
		params.Set("offset", strconv.Itoa(q.offset))
	}

	endpoint := c.baseURL + "/" + q.relation + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if q.count {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrStoreUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		logging.Error().
			Str("component", "store").
			Str("relation", q.relation).
			Int("status", resp.StatusCode).
			Msg("Row store returned server error")
		return nil, fmt.Errorf("%w: status %d", ErrStoreUnavailable, resp.StatusCode)
	}

	return &queryResult{
		body:       body,
		statusCode: resp.StatusCode,
		count:      parseContentRange(resp.Header.Get("Content-Range")),
	}, nil
}

// parseContentRange extracts the total from a "0-19/42" style header.
// Returns 0 when the header is absent or the total is unknown ("*").
func parseContentRange(header string) int {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total := header[idx+1:]
	if total == "*" || total == "" {
		return 0
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0
	}
	return n
}

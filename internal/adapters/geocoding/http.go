package geocoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent   = "marker-route-service/1.0"
	maxAttempts = 4
	// maxErrorBody bounds how much of an error response is kept for the message.
	maxErrorBody = 4 << 10
)

type httpStatusError struct {
	Code int
	Body string
	// RetryAfter is the server-requested delay on 429/503, zero when absent.
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// httpClient is the transport shared by the geocoders: one rate limiter per
// provider in front of an http.Client, with retry on transient failures.
type httpClient struct {
	session *http.Client
	limiter *rate.Limiter
	headers http.Header
	backoff time.Duration
}

// newHTTPClient builds a client allowing rps requests per second (<= 0 disables limiting).
func newHTTPClient(timeout time.Duration, rps float64, extra map[string]string) *httpClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", userAgent)
	for k, v := range extra {
		h.Set(k, v)
	}

	return &httpClient{
		session: &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		headers: h,
		backoff: 200 * time.Millisecond,
	}
}

// get issues a GET for endpoint with query params, retrying transient failures.
// The caller closes the returned body.
func (c *httpClient) get(ctx context.Context, endpoint string, params map[string]string) (*http.Response, error) {
	delay := c.backoff

	for attempt := 1; ; attempt++ {
		resp, err := c.once(ctx, endpoint, params)
		if err == nil {
			return resp, nil
		}
		if attempt == maxAttempts || !retryable(err) {
			return nil, err
		}

		wait := delay
		var he *httpStatusError
		if errors.As(err, &he) && he.RetryAfter > wait {
			wait = he.RetryAfter
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

func (c *httpClient) once(ctx context.Context, endpoint string, params map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers.Clone()

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// retryable reports whether err is worth another attempt: network errors,
// rate limiting and upstream 5xx responses.
func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// parseRetryAfter understands the delay-seconds form only.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

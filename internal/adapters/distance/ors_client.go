package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAttempts = 4
	defaultBackoff  = 200 * time.Millisecond

	// Upper bound on a server-requested pause before the next attempt.
	maxRetryAfter = 30 * time.Second

	// Error bodies past this size are truncated.
	maxErrorBody = 4 << 10
)

// apiError is a non-2xx reply from OpenRouteService.
type apiError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ors status %d: %s", e.Status, e.Message)
}

// Throttled and server-side failures may succeed later; anything else is final.
func (e *apiError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// call sends one JSON exchange to path and decodes the reply into out. A nil in
// sends no body. Attempts are throttled by the limiter and retried while the
// failure is temporary, waiting for the longer of the backoff and Retry-After.
func (o *ORSEdgeSource) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	target := o.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	wait := o.backoff
	for attempt := 1; ; attempt++ {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := o.exchange(ctx, method, target, payload, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= o.attempts || !retryable(err) {
			return err
		}

		pause := retryDelay(err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		wait *= 2
	}
}

func (o *ORSEdgeSource) exchange(ctx context.Context, method, target string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := o.session.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apiError{
			Status:     resp.StatusCode,
			Message:    errorMessage(raw),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.temporary()
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// retryDelay is the pause before the next attempt.
func retryDelay(err error, backoff time.Duration) time.Duration {
	var ae *apiError
	if errors.As(err, &ae) && ae.RetryAfter > backoff {
		return ae.RetryAfter
	}
	return backoff
}

// parseRetryAfter reads a Retry-After header given as seconds or as an HTTP date.
// Missing or malformed values yield zero.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = at.Sub(now)
	}

	switch {
	case d < 0:
		return 0
	case d > maxRetryAfter:
		return maxRetryAfter
	}
	return d
}

// ORS reports errors as {"error": "..."} or {"error": {"code": n, "message": "..."}}.
func errorMessage(raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Error) > 0 {
		var text string
		if json.Unmarshal(envelope.Error, &text) == nil {
			return text
		}
		var detail struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
			return detail.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

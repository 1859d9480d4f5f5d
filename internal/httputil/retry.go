// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides shared HTTP helpers for the exporter.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryDelay is the fixed wait before the single retry of a failed request.
// Declared as a var so tests can shorten it.
var RetryDelay = 2 * time.Second

// DoWithRetry executes req and retries it exactly once, after RetryDelay,
// when the transport errors or the server answers 429 or 5xx. The first
// response body is drained and closed before the retry so the connection can
// be reused. Cancelling the context during the wait returns ctx.Err(). The
// second attempt's outcome is returned as-is, success or failure.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req.Clone(ctx))
	if !retryable(resp, err) {
		return resp, err
	}

	if resp != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(RetryDelay):
	}

	return client.Do(req.Clone(ctx))
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= http.StatusInternalServerError
}

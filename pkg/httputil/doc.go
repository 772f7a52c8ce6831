// Package httputil downloads source images over HTTP.
//
// # Overview
//
// The CLI accepts an http:// or https:// URL wherever it takes an input
// image. [Fetcher] downloads it with:
//
//   - Retries: network errors, 429 and 5xx responses are retried with
//     exponential backoff via [cache.RetryWithBackoff]
//   - Caching: bodies are stored in the pipeline cache under a key derived
//     from the URL, so repeated runs do not download again
//   - Limits: bodies larger than [Fetcher.MaxBytes] are rejected
//
// Usage:
//
//	f := httputil.NewFetcher(runner.Cache)
//	data, cached, err := f.Fetch(ctx, "https://example.com/photo.png")
//
// A 404 is reported as FILE_NOT_FOUND, other client errors and oversized
// bodies as INVALID_INPUT.
package httputil

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/pyramidr/pkg/buildinfo"
	"github.com/matzehuels/pyramidr/pkg/cache"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/observability"
)

// Defaults for [NewFetcher].
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 64 << 20
	DefaultTTL      = 24 * time.Hour
)

const keyTypeSource = "source"

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher downloads source images. The zero value is not usable; call
// [NewFetcher].
type Fetcher struct {
	Client   *http.Client
	Cache    cache.Cache
	TTL      time.Duration
	MaxBytes int64
}

// NewFetcher returns a fetcher that caches bodies in c. A nil c disables
// caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		Cache:    c,
		TTL:      DefaultTTL,
		MaxBytes: DefaultMaxBytes,
	}
}

// IsURL reports whether s should be fetched rather than opened as a file.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL and reports whether the body came from the cache.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false, perrors.New(perrors.ErrCodeInvalidInput, "invalid source URL %q", rawURL)
	}

	key := keyTypeSource + ":" + cache.Hash([]byte(u.String()))
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeSource)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeSource)

	var data []byte
	err = cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = f.get(ctx, u.String())
		return err
	})
	if err != nil {
		return nil, false, classify(err)
	}

	if err := f.Cache.Set(ctx, key, data, f.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeSource, len(data))
	}
	return data, false, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pyramidr/"+buildinfo.Version)
	req.Header.Set("Accept", "image/*")

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		serr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, cache.Retryable(serr)
		}
		return nil, serr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read %s: %v", cache.ErrNetwork, rawURL, err))
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "source at %s exceeds %d bytes", rawURL, f.MaxBytes)
	}
	return data, nil
}

// classify maps a final fetch error to a coded error.
func classify(err error) error {
	var serr *StatusError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound:
		return perrors.Wrap(perrors.ErrCodeFileNotFound, err, "fetch source")
	case errors.As(err, &serr) && serr.StatusCode < 500 && serr.StatusCode != http.StatusTooManyRequests:
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "fetch source")
	case perrors.GetCode(err) != "":
		return err
	}
	return perrors.Wrap(perrors.ErrCodeInternal, err, "fetch source")
}

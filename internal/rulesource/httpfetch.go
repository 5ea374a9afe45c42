package rulesource

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sevigo/codelens/internal/cerr"
)

// HTTPFetcher is the default collab.NetworkFetcher implementation used for
// TypeURL sources: a plain net/http client rate-limited per the configured
// ceiling. Get applies a per-request deadline; Head uses the caller's
// context as is.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher builds an HTTPFetcher allowing at most ratePerSecond
// requests/second, bursting up to burst.
func NewHTTPFetcher(ratePerSecond float64, burst int) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (f *HTTPFetcher) Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) (int, map[string][]string, []byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Get", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Get", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Get", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Get", err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

func (f *HTTPFetcher) Head(ctx context.Context, url string) (map[string][]string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Head", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Head", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, cerr.New(cerr.NetworkFailed, "rulesource.HTTPFetcher.Head", err)
	}
	defer resp.Body.Close()
	return resp.Header, nil
}

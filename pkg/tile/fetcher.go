package tile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultUserAgent is sent with every tile request unless overridden by a header.
const DefaultUserAgent = "staticmap/1.0"

// Doer is the HTTP client used for tile requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Client  Doer
	Headers map[string]string
	// Timeout bounds a single tile request. Zero means no timeout.
	Timeout time.Duration
	// Limit is the maximum number of simultaneous requests. Zero or less
	// fetches every tile at once.
	Limit  int
	Cache  *Cache
	Logger logrus.FieldLogger
}

// Fetcher handles tile downloading and caching
type Fetcher struct {
	client  Doer
	headers map[string]string
	timeout time.Duration
	limit   int
	cache   *Cache
	logger  logrus.FieldLogger
}

// NewFetcher creates a new tile fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:  opts.Client,
		headers: opts.Headers,
		timeout: opts.Timeout,
		limit:   opts.Limit,
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.logger == nil {
		f.logger = logrus.StandardLogger()
	}
	return f
}

// Cache returns the tile cache, which may be nil.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// FetchAll resolves every plan. With a positive limit the plans are processed
// in consecutive chunks of that size: all fetches inside a chunk run at once
// and the next chunk starts only after every fetch of the previous one has
// settled.
func (f *Fetcher) FetchAll(ctx context.Context, plans []Plan) []Result {
	results := make([]Result, len(plans))

	if f.limit <= 0 {
		f.fetchChunk(ctx, plans, results)
		return results
	}

	for i := 0; i < len(plans); i += f.limit {
		end := min(i+f.limit, len(plans))
		f.fetchChunk(ctx, plans[i:end], results[i:end])
	}
	return results
}

func (f *Fetcher) fetchChunk(ctx context.Context, plans []Plan, results []Result) {
	var g errgroup.Group
	for i := range plans {
		i := i
		g.Go(func() error {
			results[i] = f.Fetch(ctx, plans[i])
			return nil
		})
	}
	g.Wait()
}

// Fetch resolves one tile, preferring the cache. It never returns an error;
// failures are reported in the Result.
func (f *Fetcher) Fetch(ctx context.Context, plan Plan) Result {
	if f.cache != nil {
		if data, ok := f.cache.Get(plan.Key); ok {
			return Result{OK: true, URL: plan.URL, Box: plan.Box, Data: data}
		}
	}

	data, err := f.download(ctx, plan.URL)
	if err != nil {
		f.logger.WithError(err).Debug("Can't retrieve tile")
		return Result{URL: plan.URL, Box: plan.Box, Err: err}
	}

	if f.cache != nil {
		f.cache.Put(plan.Key, data)
	}
	return Result{OK: true, URL: plan.URL, Box: plan.Box, Data: data}
}

// download downloads a single tile
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("tile server responded with wrong content type %q", contentType)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}

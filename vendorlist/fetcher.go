package vendorlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/context/ctxhttp"

	"github.com/bidmesh/bidmesh/config"
	"github.com/bidmesh/bidmesh/metrics"
)

// Fetcher returns the vendor list pinned by a consent string. Implementations must be
// safe for concurrent use and must respect the context deadline; callers treat any
// returned list as immutable.
type Fetcher func(ctx context.Context, version uint16) (*List, error)

// NewFetcher builds the caching HTTP fetcher. Each version is downloaded at most once at
// a time; concurrent requests for the same version wait on the in-flight download rather
// than racing it. When configured, a fallback list answers for versions that cannot be
// downloaded.
func NewFetcher(cfg config.GDPR, client *http.Client, me *metrics.Metrics) (Fetcher, error) {
	var fallback *List
	if cfg.FallbackGVLPath != "" {
		data, err := os.ReadFile(cfg.FallbackGVLPath)
		if err != nil {
			return nil, fmt.Errorf("error reading fallback GVL from %s: %v", cfg.FallbackGVLPath, err)
		}
		fallback, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing fallback GVL from %s: %v", cfg.FallbackGVLPath, err)
		}
	}

	cache := &sync.Map{}
	inflight := &inflightTable{calls: make(map[uint16]*inflightCall)}
	// lastFailure rate limits retries per version, so a bad CMP advertising a version
	// that does not exist cannot turn every request into a download attempt
	lastFailure := &sync.Map{}
	activeTimeout := cfg.Timeouts.ActiveTimeout()

	fetchOne := func(ctx context.Context, version uint16) (*List, error) {
		if activeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, activeTimeout)
			defer cancel()
		}
		start := time.Now()
		list, err := download(ctx, client, vendorListURL(version, cfg.VendorListURLTemplate))
		me.RecordVendorListFetch(time.Since(start), err)
		return list, err
	}

	fetcher := func(ctx context.Context, version uint16) (*List, error) {
		if version == 0 {
			return nil, makeVendorListNotFoundError(version)
		}
		if cached, ok := cache.Load(version); ok {
			return cached.(*List), nil
		}

		if failedAt, ok := lastFailure.Load(version); ok && time.Since(failedAt.(time.Time)) < retryCooldown {
			if fallback != nil {
				return fallback, nil
			}
			return nil, makeVendorListNotFoundError(version)
		}

		list, err := inflight.do(ctx, version, fetchOne)
		if err == nil {
			lastFailure.Delete(version)
			cache.Store(version, list)
			return list, nil
		}
		glog.Warningf("Failed to fetch GDPR vendor list version %d: %v", version, err)
		lastFailure.Store(version, time.Now())

		if fallback != nil {
			return fallback, nil
		}
		return nil, makeVendorListNotFoundError(version)
	}

	if initTimeout := cfg.Timeouts.InitTimeout(); initTimeout > 0 {
		warmCache(initTimeout, client, cfg.VendorListURLTemplate, cache, me)
	}

	return fetcher, nil
}

// retryCooldown is how long a version that failed to download stays embargoed before
// another attempt is allowed.
const retryCooldown = 10 * time.Minute

func makeVendorListNotFoundError(version uint16) error {
	return fmt.Errorf("gdpr vendor list version %d does not exist, or has not been loaded yet. Try again in a few minutes", version)
}

// warmCache downloads the latest vendor list once at startup and stores it under its
// actual version, so the common case never pays a fetch on the request path.
func warmCache(timeout time.Duration, client *http.Client, urlTemplate string, cache *sync.Map, me *metrics.Metrics) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	list, err := download(ctx, client, vendorListURL(0, urlTemplate))
	me.RecordVendorListFetch(time.Since(start), err)
	if err != nil {
		glog.Warningf("Failed to preload the latest GDPR vendor list: %v", err)
		return
	}
	cache.Store(list.Version(), list)
}

func download(ctx context.Context, client *http.Client, url string) (*List, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GET %s request: %v", url, err)
	}

	resp, err := ctxhttp.Do(ctx, client, req)
	if err != nil {
		return nil, fmt.Errorf("error calling GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from GET %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned %d", url, resp.StatusCode)
	}

	list, err := Parse(respBody)
	if err != nil {
		return nil, fmt.Errorf("GET %s returned malformed JSON: %v", url, err)
	}
	return list, nil
}

// Make a URL which can be used to fetch a given version of the Global Vendor List. If the
// version is 0, this will fetch the latest version.
func vendorListURL(version uint16, template string) string {
	if template != "" {
		return strings.Replace(template, "{VERSION}", strconv.Itoa(int(version)), 1)
	}
	if version == 0 {
		return "https://vendor-list.consensu.org/v2/vendor-list.json"
	}
	return "https://vendor-list.consensu.org/v2/archives/vendor-list-v" + strconv.Itoa(int(version)) + ".json"
}

// inflightTable deduplicates concurrent downloads of the same list version. The table is
// mutex-protected and never global; each Fetcher owns its own.
type inflightTable struct {
	mu    sync.Mutex
	calls map[uint16]*inflightCall
}

type inflightCall struct {
	done chan struct{}
	list *List
	err  error
}

func (t *inflightTable) do(ctx context.Context, version uint16, fetch func(ctx context.Context, version uint16) (*List, error)) (*List, error) {
	t.mu.Lock()
	if call, found := t.calls[version]; found {
		t.mu.Unlock()
		select {
		case <-call.done:
			return call.list, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	t.calls[version] = call
	t.mu.Unlock()

	call.list, call.err = fetch(ctx, version)

	t.mu.Lock()
	delete(t.calls, version)
	t.mu.Unlock()
	close(call.done)

	return call.list, call.err
}

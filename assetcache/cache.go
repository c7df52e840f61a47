/*
Package assetcache keeps a versioned offline copy of the app shell and
every asset fetched through it.

PURPOSE:
  The reconciliation surface must keep working when the network drops in
  the middle of a shift. The Worker sits in front of the network (a static
  file handler or an upstream CDN) and answers GET requests from a named
  cache first, falling back to the network and keeping a copy of what it
  fetched.

LIFECYCLE:
  1. Install:  pre-cache the shell URLs into the current cache
  2. Activate: delete every cache whose name is not the current version tag
  3. Fetch:    cache first, then network, store cacheable responses

BYPASS:
  Non-GET requests and chrome-extension:// URLs go straight to the network
  and are never cached.

FAILURES:
  A network failure with nothing cached is returned as an error (502 over
  HTTP). There is no offline fallback page.

SEE ALSO:
  - worker.go: lifecycle and fetch strategy
  - policy.go: which responses may be cached
  - memory.go: in-memory Storage
  - store/sqlite: durable Storage
*/
package assetcache

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultCacheName is the current cache version tag.
const DefaultCacheName = "calc-caixa-cache-v1"

// DefaultPrecache lists the shell resources cached on install.
var DefaultPrecache = []string{"/", "index.html", "manifest.webmanifest"}

// =============================================================================
// RESPONSE
// =============================================================================

// ResponseType mirrors how a browser classifies a fetched response.
type ResponseType string

const (
	// TypeBasic is a same-origin response.
	TypeBasic ResponseType = "basic"
	// TypeCORS is a cross-origin response the origin allowed us to read.
	TypeCORS ResponseType = "cors"
	// TypeOpaque is a cross-origin response without CORS headers.
	TypeOpaque ResponseType = "opaque"
)

// Response is a fully buffered response as stored in a cache.
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
	Type   ResponseType
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Clone returns a deep copy so stored entries cannot be changed by callers.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Header = r.Header.Clone()
	out.Body = append([]byte(nil), r.Body...)
	return &out
}

// WriteTo copies the response onto w.
func (r *Response) WriteTo(w http.ResponseWriter) {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}

// =============================================================================
// PORTS
// =============================================================================

// Cache is one named cache of responses keyed by URL.
type Cache interface {
	Match(ctx context.Context, key string) (*Response, bool, error)
	Put(ctx context.Context, key string, resp *Response) error
}

// Storage holds the named caches.
type Storage interface {
	// Open returns the named cache, creating it if needed.
	Open(ctx context.Context, name string) (Cache, error)
	// Keys lists the existing cache names.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes a cache and everything in it.
	Delete(ctx context.Context, name string) (bool, error)
}

// Fetcher is the network.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*Response, error)
}

// =============================================================================
// KEYS
// =============================================================================

var root = &url.URL{Path: "/"}

// Key normalizes a URL into a cache key. Relative paths resolve against "/",
// so "index.html" and "/index.html" share an entry.
func Key(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return keyOf(u)
}

func keyOf(u *url.URL) string {
	if u.IsAbs() {
		return u.String()
	}
	r := root.ResolveReference(u)
	r.Fragment = ""
	return r.RequestURI()
}

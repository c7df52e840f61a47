package assetcache_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/caixa/assetcache"
)

func TestPolicy_Cacheable(t *testing.T) {
	tests := []struct {
		name   string
		resp   assetcache.Response
		strict bool
		legacy bool
	}{
		{"basic 200", assetcache.Response{Status: 200, Type: assetcache.TypeBasic}, true, true},
		{"cors 200", assetcache.Response{Status: 200, Type: assetcache.TypeCORS}, true, true},
		{"basic 404", assetcache.Response{Status: 404, Type: assetcache.TypeBasic}, false, false},
		{"cors 500", assetcache.Response{Status: 500, Type: assetcache.TypeCORS}, false, true},
		{"opaque 200", assetcache.Response{Status: 200, Type: assetcache.TypeOpaque}, false, false},
		{"basic 206", assetcache.Response{Status: 206, Type: assetcache.TypeBasic}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, assetcache.PolicyStrict.Cacheable(&tt.resp))
			assert.Equal(t, tt.legacy, assetcache.PolicyLegacy.Cacheable(&tt.resp))
		})
	}
	assert.False(t, assetcache.PolicyStrict.Cacheable(nil))
}

func TestParsePolicy(t *testing.T) {
	p, err := assetcache.ParsePolicy("legacy")
	require.NoError(t, err)
	assert.Equal(t, assetcache.PolicyLegacy, p)

	p, err = assetcache.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, assetcache.PolicyStrict, p)

	_, err = assetcache.ParsePolicy("always")
	assert.Error(t, err)
}

func TestClientFetcher_Classification(t *testing.T) {
	// GIVEN: a CDN that answers 500 with CORS headers
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer cdn.Close()
	upstream, _ := url.Parse(cdn.URL)
	origin, _ := url.Parse("http://localhost:8080")
	fetcher := assetcache.ClientFetcher{Client: cdn.Client(), Upstream: upstream, Origin: origin}

	resp, err := fetcher.Fetch(context.Background(), httptest.NewRequest(http.MethodGet, "/lib.js", nil))
	require.NoError(t, err)
	assert.Equal(t, assetcache.TypeCORS, resp.Type)

	// THEN: only the legacy rule stores it
	for policy, stored := range map[assetcache.Policy]bool{
		assetcache.PolicyStrict: false,
		assetcache.PolicyLegacy: true,
	} {
		storage := assetcache.NewMemoryStorage()
		w := assetcache.NewWorker(storage, fetcher, assetcache.Config{Policy: policy}, nil)
		_, err := w.Fetch(context.Background(), httptest.NewRequest(http.MethodGet, "/lib.js", nil))
		require.NoError(t, err)

		cache, _ := storage.Open(context.Background(), assetcache.DefaultCacheName)
		_, ok, _ := cache.Match(context.Background(), "/lib.js")
		assert.Equal(t, stored, ok, policy.String())
	}
}

func TestClientFetcher_SameOriginIsBasic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()
	u, _ := url.Parse(srv.URL)
	fetcher := assetcache.ClientFetcher{Client: srv.Client(), Upstream: u, Origin: u}

	resp, err := fetcher.Fetch(context.Background(), httptest.NewRequest(http.MethodGet, "/a.css", nil))
	require.NoError(t, err)
	assert.Equal(t, assetcache.TypeBasic, resp.Type)
	assert.Equal(t, []byte("ok"), resp.Body)
}

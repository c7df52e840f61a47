package assetcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// =============================================================================
// HANDLER FETCHER - The local static file server as the network
// =============================================================================

// HandlerFetcher runs requests against an in-process handler. Responses are
// same-origin.
type HandlerFetcher struct {
	Handler http.Handler
}

func (f HandlerFetcher) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	rec := &recorder{header: make(http.Header)}
	f.Handler.ServeHTTP(rec, req.Clone(ctx))
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		URL:    keyOf(req.URL),
		Status: status,
		Header: rec.header,
		Body:   rec.body.Bytes(),
		Type:   TypeBasic,
	}, nil
}

type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

// =============================================================================
// CLIENT FETCHER - A remote upstream as the network
// =============================================================================

// ClientFetcher forwards requests to an upstream over HTTP. Relative request
// URLs resolve against Upstream. Responses from Origin's host are basic,
// responses carrying Access-Control-Allow-Origin are cors, the rest opaque.
type ClientFetcher struct {
	Client   *http.Client
	Upstream *url.URL
	Origin   *url.URL
}

func (f ClientFetcher) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	target := req.URL
	if !target.IsAbs() && f.Upstream != nil {
		target = f.Upstream.ResolveReference(req.URL)
	}

	out, err := http.NewRequestWithContext(ctx, req.Method, target.String(), req.Body)
	if err != nil {
		return nil, err
	}
	if req.Header != nil {
		out.Header = req.Header.Clone()
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(out)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return &Response{
		URL:    target.String(),
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
		Type:   f.classify(target, resp),
	}, nil
}

func (f ClientFetcher) classify(target *url.URL, resp *http.Response) ResponseType {
	if f.Origin != nil && target.Host == f.Origin.Host {
		return TypeBasic
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		return TypeCORS
	}
	return TypeOpaque
}

package binanceclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
)

// responseCapture records what happened to one logical request so errors
// can be classified after go-binance has folded them into its own types.
type responseCapture struct {
	mu         sync.Mutex
	dispatched bool
	statusCode int
	body       []byte
}

func (c *responseCapture) snapshot() (dispatched bool, status int, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatched, c.statusCode, c.body
}

type captureKey struct{}

func withCapture(ctx context.Context) (context.Context, *responseCapture) {
	c := &responseCapture{}
	return context.WithValue(ctx, captureKey{}, c), c
}

func captureFrom(ctx context.Context) *responseCapture {
	c, _ := ctx.Value(captureKey{}).(*responseCapture)
	return c
}

// captureTransport fills the request's responseCapture. It never alters the
// response seen by the caller.
type captureTransport struct {
	next http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	capture := captureFrom(req.Context())
	if capture != nil {
		capture.mu.Lock()
		capture.dispatched = true
		capture.mu.Unlock()
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil || capture == nil {
		return resp, err
	}

	var body []byte
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	capture.mu.Lock()
	capture.statusCode = resp.StatusCode
	capture.body = body
	capture.mu.Unlock()
	return resp, nil
}

package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoseManuelOberreuter/Binance-API/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	mu        sync.Mutex
	errorMsgs []string
	fields    []map[string]interface{}
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMsgs = append(m.errorMsgs, msg)
	if len(fields) > 0 {
		m.fields = append(m.fields, fields[0])
	}
}

const klinesBody = `[
	[1499040000000,"0.01634790","0.80000000","0.01575800","0.01577100","148976.11427815",1499644799999,"2434.19055334",308,"1756.87402397","28.46694368","0"],
	[1499644800000,"0.01577100","0.02000000","0.01500000","0.01800000","1000.5",1500249599999,"20.1",12,"500.2","9.3","0"]
]`

const tickerBody = `{
	"symbol":"BTCUSDT","priceChange":"-94.99999800","priceChangePercent":"-95.960",
	"weightedAvgPrice":"0.29628482","prevClosePrice":"0.10002000","lastPrice":"4.00000200",
	"lastQty":"200.00000000","bidPrice":"4.00000000","bidQty":"100.00000000","askPrice":"4.00000200",
	"askQty":"100.00000000","openPrice":"99.00000000","highPrice":"100.00000000","lowPrice":"0.10000000",
	"volume":"8913.30000000","quoteVolume":"15.30000000","openTime":1499783499040,
	"closeTime":1499869899040,"firstId":28385,"lastId":28460,"count":76
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *mockLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := &mockLogger{}
	c, err := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: logger})
	require.NoError(t, err)
	return c, logger
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{Logger: &mockLogger{}})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, c.spotClient.HTTPClient.Timeout)
	assert.Equal(t, BaseURLProduction, c.spotClient.BaseURL)

	c, err = New(Config{Logger: &mockLogger{}, Timeout: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.spotClient.HTTPClient.Timeout)
}

func TestFetchKlines(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		fmt.Fprint(w, klinesBody)
	})

	klines, err := c.FetchKlines(context.Background(), "BTCUSDT", "1d", 30)
	require.NoError(t, err)
	require.Len(t, klines, 2)

	k := klines[0]
	assert.Equal(t, time.UnixMilli(1499040000000), k.OpenTime)
	assert.Equal(t, time.UnixMilli(1499644799999), k.CloseTime)
	assert.Equal(t, "BTCUSDT", k.Symbol)
	assert.Equal(t, "1d", k.Interval)
	assert.InDelta(t, 0.0163479, k.Open, 1e-12)
	assert.InDelta(t, 0.8, k.High, 1e-12)
	assert.InDelta(t, 0.015758, k.Low, 1e-12)
	assert.InDelta(t, 0.015771, k.Close, 1e-12)
	assert.InDelta(t, 148976.11427815, k.Volume, 1e-9)
	assert.True(t, k.IsFinal)
	assert.Equal(t, "2434.19055334", k.QuoteAssetVolume)
	assert.Equal(t, int64(308), k.TradeCount)

	assert.True(t, klines[0].OpenTime.Before(klines[1].OpenTime))
}

func TestFetchTicker24h(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, tickerBody)
	})

	ticker, err := c.FetchTicker24h(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", ticker.Symbol)
	assert.InDelta(t, 4.000002, ticker.LastPrice, 1e-12)
	assert.InDelta(t, 8913.3, ticker.Volume, 1e-9)
	assert.InDelta(t, 100.0, ticker.HighPrice, 1e-12)
	assert.InDelta(t, 0.1, ticker.LowPrice, 1e-12)
	assert.InDelta(t, -95.96, ticker.PriceChangePercent, 1e-12)
	assert.InDelta(t, 99.0, ticker.OpenPrice, 1e-12)
}

func TestFetch_HTTPErrorsAreClassified(t *testing.T) {
	tests := []struct {
		status     int
		wantClass  error
		wantLogMsg string
	}{
		{http.StatusTooManyRequests, ports.ErrRateLimited, "Rate limit exceeded, wait before sending more requests"},
		{http.StatusTeapot, ports.ErrBanned, "IP temporarily banned for exceeding the rate limit"},
		{http.StatusBadRequest, ports.ErrInvalidRequest, "Invalid request"},
		{http.StatusUnauthorized, ports.ErrUnauthorized, "Unauthorized, check credentials"},
		{http.StatusForbidden, ports.ErrForbidden, "Access forbidden"},
		{http.StatusNotFound, ports.ErrNotFound, "Resource not found"},
		{http.StatusInternalServerError, ports.ErrServerError, "Exchange internal server error"},
		{http.StatusServiceUnavailable, ports.ErrUnknown, "Unexpected error response"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var hits int32
			body := `{"code":-1003,"msg":"Too many requests"}`
			c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, body)
			})

			_, err := c.FetchTicker24h(context.Background(), "BTCUSDT")
			require.Error(t, err)

			var fetchErr *ports.DataFetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, ports.KindHTTP, fetchErr.Kind)
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, body, string(fetchErr.Body))
			assert.Equal(t, "GetTicker24h", fetchErr.Op)
			assert.ErrorIs(t, err, tt.wantClass)

			assert.Equal(t, []string{tt.wantLogMsg}, logger.errorMsgs)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "must not retry")
		})
	}
}

func TestFetch_RateLimitLogsAPIErrorCode(t *testing.T) {
	c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"code":-1003,"msg":"Too many requests"}`)
	})

	_, err := c.FetchKlines(context.Background(), "BTCUSDT", "1h", 24)
	assert.ErrorIs(t, err, ports.ErrRateLimited)
	require.Len(t, logger.fields, 1)
	assert.Equal(t, 429, logger.fields[0]["status"])
	assert.Equal(t, "GetKlines", logger.fields[0]["operation"])
	assert.EqualValues(t, -1003, logger.fields[0]["apiErrorCode"])
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // Nothing listens any more

	logger := &mockLogger{}
	c, err := New(Config{BaseURL: url, Timeout: time.Second, Logger: logger})
	require.NoError(t, err)

	_, err = c.FetchKlines(context.Background(), "BTCUSDT", "1h", 24)
	var fetchErr *ports.DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ports.KindTransport, fetchErr.Kind)
	assert.ErrorIs(t, err, ports.ErrNoResponse)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Equal(t, []string{"No response received from the exchange"}, logger.errorMsgs)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	logger := &mockLogger{}
	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, Logger: logger})
	require.NoError(t, err)

	_, err = c.FetchTicker24h(context.Background(), "BTCUSDT")
	var fetchErr *ports.DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ports.KindTransport, fetchErr.Kind)
	assert.ErrorIs(t, err, ports.ErrTimeout)
}

func TestFetch_RequestSetupError(t *testing.T) {
	logger := &mockLogger{}
	c, err := New(Config{BaseURL: "://missing-scheme", Logger: logger})
	require.NoError(t, err)

	_, err = c.FetchTicker24h(context.Background(), "BTCUSDT")
	var fetchErr *ports.DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ports.KindSetup, fetchErr.Kind)
	assert.ErrorIs(t, err, ports.ErrRequestSetup)
	assert.Equal(t, []string{"Failed to set up request"}, logger.errorMsgs)
}

func TestFetch_MalformedBody(t *testing.T) {
	c, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbol":"BTCUSDT","lastPrice":"not-a-number","volume":"1","quoteVolume":"1","highPrice":"1","lowPrice":"1","openPrice":"1","priceChange":"1","priceChangePercent":"1"}`)
	})

	_, err := c.FetchTicker24h(context.Background(), "BTCUSDT")
	var fetchErr *ports.DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ports.KindDecode, fetchErr.Kind)
	assert.ErrorIs(t, err, ports.ErrInvalidResponse)
	assert.Equal(t, []string{"Malformed response from the exchange"}, logger.errorMsgs)
}

func TestPing(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ping", r.URL.Path)
		fmt.Fprint(w, `{}`)
	})
	assert.NoError(t, c.Ping(context.Background()))
}

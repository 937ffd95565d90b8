package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/Alias1177/TradeCoach/internal/platform/http"
)

func newTestClient(url string) *Client {
	return NewClient(ClientOptions{
		URL:            url,
		ServiceKey:     "service-key",
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 100,
	})
}

func TestGetTrades(t *testing.T) {
	var gotAPIKey, gotAuth, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("user_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"t1","user_id":"u1","pnl":10.5,"trade_type":"scalp","notes":"followed my plan"},
			{"id":"t2","user_id":"u1","pnl":null,"trade_type":"","notes":""}
		]`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	trades, err := client.GetTrades(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, trades, 2)
	assert.Equal(t, 10.5, trades[0].PnL)
	assert.Equal(t, "scalp", trades[0].TradeType)
	// null pnl decodes to zero
	assert.Equal(t, 0.0, trades[1].PnL)

	assert.Equal(t, "service-key", gotAPIKey)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "eq.u1", gotQuery)
}

func TestGetTrades_EmptyResult(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	trades, err := client.GetTrades(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestGetTrades_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	_, err := client.GetTrades(context.Background(), "u1")
	require.Error(t, err)

	var statusErr *httpclient.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestGetTrades_MissingCredentials(t *testing.T) {
	client := NewClient(ClientOptions{})
	_, err := client.GetTrades(context.Background(), "u1")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGetTrades_BadJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream.URL)
	_, err := client.GetTrades(context.Background(), "u1")
	require.Error(t, err)
}

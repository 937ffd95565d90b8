package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/TradeCoach/internal/api/supabase"
	"github.com/Alias1177/TradeCoach/models"
)

type fakeSource struct {
	trades []models.Trade
	err    error
}

func (f *fakeSource) GetTrades(_ context.Context, _ string) ([]models.Trade, error) {
	return f.trades, f.err
}

type fakeResponder struct {
	reply string
}

func (f *fakeResponder) Respond(_ context.Context, _ string, _ models.TradeAnalysisResult) string {
	return f.reply
}

func newTestServer(source models.TradeSource, responder models.Responder) *Server {
	return NewServer("127.0.0.1:0", source, responder)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeSource{}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandleTradeAnalysis(t *testing.T) {
	source := &fakeSource{trades: []models.Trade{
		{PnL: 10, TradeType: "scalp"},
		{PnL: -5, TradeType: "swing"},
		{PnL: 20, TradeType: "scalp"},
	}}
	srv := newTestServer(source, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trade-analysis?user_id=u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.TradeAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 2.0/3.0, result.WinRate, 1e-9)
	assert.InDelta(t, 25.0/3.0, result.AvgProfitLoss, 1e-9)
	assert.ElementsMatch(t, []string{"scalp", "swing"}, result.Strategies)
}

func TestHandleTradeAnalysis_MissingUserID(t *testing.T) {
	srv := newTestServer(&fakeSource{}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trade-analysis", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTradeAnalysis_UpstreamFailure(t *testing.T) {
	srv := newTestServer(&fakeSource{err: errors.New("fetching trades: non-2xx status code: 503")}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trade-analysis?user_id=u1", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "503")
}

func TestHandleTradeAnalysis_MissingCredentials(t *testing.T) {
	srv := newTestServer(&fakeSource{err: supabase.ErrMissingCredentials}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trade-analysis?user_id=u1", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleChat(t *testing.T) {
	source := &fakeSource{trades: []models.Trade{{PnL: 10}}}
	srv := newTestServer(source, &fakeResponder{reply: "Keep your risk fixed per trade."})

	payload, err := json.Marshal(models.ChatRequest{
		UserID: "u1",
		Messages: []models.Message{
			{Role: "assistant", Content: "How can I help?"},
			{Role: "user", Content: "What's my win rate?"},
			{Role: "assistant", Content: "Let me check."},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Keep your risk fixed per trade.", resp.Response)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, 1.0, resp.Analysis.WinRate)
}

func TestHandleChat_NoUserMessage(t *testing.T) {
	srv := newTestServer(&fakeSource{}, &fakeResponder{reply: "unused"})

	payload, err := json.Marshal(models.ChatRequest{
		UserID: "u1",
		Messages: []models.Message{
			{Role: "assistant", Content: "How can I help?"},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I didn't receive a message to respond to.", resp.Response)
	assert.Nil(t, resp.Analysis)
}

func TestHandleChat_BadBody(t *testing.T) {
	srv := newTestServer(&fakeSource{}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json"))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeSource{}, &fakeResponder{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

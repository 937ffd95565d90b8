package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpclient "github.com/Alias1177/TradeCoach/internal/platform/http"
	"github.com/Alias1177/TradeCoach/models"
)

// ErrMissingCredentials is returned when SUPABASE_URL or the service key is
// not configured. Handlers surface it as a server error.
var ErrMissingCredentials = errors.New("missing Supabase credentials")

// Client is the Supabase PostgREST client for the trades table
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Supabase client
type ClientOptions struct {
	URL            string
	ServiceKey     string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new Supabase REST client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpclient.ClientOptions{
		Timeout:        options.RequestTimeout,
		RequestsPerSec: options.RequestsPerSec,
	}

	return &Client{
		baseURL:    strings.TrimRight(options.URL, "/"),
		serviceKey: options.ServiceKey,
		httpClient: httpclient.NewClient(httpOpts),
		logger:     log.With().Str("component", "supabase_client").Logger(),
	}
}

// GetTrades fetches all trade rows for a user, filtered by equality on
// user_id. A single attempt: any non-2xx answer comes back as an error
// carrying the upstream status.
func (c *Client) GetTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	if c.baseURL == "" || c.serviceKey == "" {
		return nil, ErrMissingCredentials
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	endpoint := fmt.Sprintf("%s/rest/v1/trades?%s", c.baseURL, query.Encode())

	c.logger.Debug().Str("user_id", userID).Msg("Fetching trades")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpclient.HTTPStatusError
		if errors.As(err, &statusErr) {
			c.logger.Error().Int("status", statusErr.StatusCode).Str("user_id", userID).Msg("Supabase returned an error status")
		}
		return nil, fmt.Errorf("fetching trades: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var trades []models.Trade
	if err := json.Unmarshal(body, &trades); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	c.logger.Debug().Int("count", len(trades)).Str("user_id", userID).Msg("Fetched trades")
	return trades, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/TradeCoach/models"
)

// DB reads trade rows straight from the managed Postgres behind Supabase.
// The table is owned by the platform; this side only ever selects.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection. The initial ping is retried with
// exponential backoff since the managed instance can be slow to admit new
// connections right after a deploy; request-path queries are never retried.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(db.Ping, backoffStrategy); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{
		DB:     db,
		logger: log.With().Str("component", "database").Logger(),
	}, nil
}

// GetTrades fetches all trade rows for a user by equality on user_id.
func (db *DB) GetTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(symbol, ''), COALESCE(pnl, 0), COALESCE(trade_type, ''), COALESCE(notes, ''), created_at
		FROM trades
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var createdAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.PnL, &t.TradeType, &t.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning trade row: %w", err)
		}
		if createdAt.Valid {
			t.CreatedAt = createdAt.Time
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trade rows: %w", err)
	}

	db.logger.Debug().Int("count", len(trades)).Str("user_id", userID).Msg("Fetched trades")
	return trades, nil
}

// Package sink persists classified trades and fans them out to
// downstream consumers.
package sink

import (
	"context"
	"fmt"
	"time"

	"solana-amm-quoter/internal/trade"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"
)

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// TradeStore writes trade records to ClickHouse.
type TradeStore struct {
	conn driver.Conn
	log  *logrus.Logger
}

func NewTradeStore(cfg ClickHouseConfig, log *logrus.Logger) (*TradeStore, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &TradeStore{conn: conn, log: log}, nil
}

func (s *TradeStore) InsertTrade(ctx context.Context, rec *trade.Record) error {
	query := `
		INSERT INTO trades (
			slot, signature, recent_blockhash, target, mint, pool, decimals,
			sol_pre, sol_post, token_pre, token_post, direction, observed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Slot,
		rec.Signature,
		rec.RecentBlockhash,
		rec.Target,
		rec.Mint,
		rec.Pool,
		rec.Decimals,
		rec.SolPre,
		rec.SolPost,
		rec.TokenPre,
		rec.TokenPost,
		rec.Direction.String(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

func (s *TradeStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *TradeStore) Close() error {
	return s.conn.Close()
}

package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"solana-amm-quoter/internal/trade"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	recentKey   = "trades:recent"
	liveChannel = "trades:live"
)

// RecentStore keeps a capped list of the latest trades in Redis and
// publishes each one on a Pub/Sub channel for live consumers.
type RecentStore struct {
	client *redis.Client
	limit  int64
	log    *logrus.Logger
}

func NewRecentStore(addr string, limit int64, log *logrus.Logger) *RecentStore {
	if limit <= 0 {
		limit = 100
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RecentStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		limit: limit,
		log:   log,
	}
}

// AddTrade prepends the record to the recent list, trims the list to the
// configured limit and publishes the record to the live channel.
func (s *RecentStore) AddTrade(ctx context.Context, rec *trade.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal trade: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, s.limit-1)
	pipe.Publish(ctx, liveChannel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add trade: %w", err)
	}

	return nil
}

// Recent returns up to limit of the most recently added trades, newest first.
func (s *RecentStore) Recent(ctx context.Context, limit int64) ([]*trade.Record, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	vals, err := s.client.LRange(ctx, recentKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}

	out := make([]*trade.Record, 0, len(vals))
	for _, v := range vals {
		var rec trade.Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			s.log.WithError(err).Debug("skipping malformed trade record")
			continue
		}
		out = append(out, &rec)
	}

	return out, nil
}

// Subscribe delivers live trade records until the context is cancelled.
func (s *RecentStore) Subscribe(ctx context.Context, handler func(*trade.Record)) error {
	pubsub := s.client.Subscribe(ctx, liveChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var rec trade.Record
			if err := json.Unmarshal([]byte(msg.Payload), &rec); err != nil {
				s.log.WithError(err).Debug("skipping malformed trade message")
				continue
			}
			handler(&rec)
		}
	}
}

func (s *RecentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RecentStore) Close() error {
	return s.client.Close()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"solana-amm-quoter/internal/apiv3"
	"solana-amm-quoter/internal/config"
	"solana-amm-quoter/internal/raydium"
	"solana-amm-quoter/internal/rpc"
	"solana-amm-quoter/internal/server"
	"solana-amm-quoter/internal/sink"
	"solana-amm-quoter/internal/stream"
	"solana-amm-quoter/internal/targetlist"
	"solana-amm-quoter/internal/trade"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Watcher wires the transaction feed to the classifier and the sinks.
type Watcher struct {
	classifier *trade.Classifier
	targets    *targetlist.List
	recent     *sink.RecentStore
	store      *sink.TradeStore
	log        *logrus.Logger
}

func (w *Watcher) Handle(ctx context.Context, n *trade.Notification) {
	rec, err := w.classifier.Classify(n)
	if err != nil {
		// Parse failures are routine on a firehose feed; anything else
		// deserves attention.
		if errors.Is(err, trade.ErrParse) {
			w.log.WithError(err).Debug("notification not classifiable")
		} else {
			w.log.WithError(err).Warn("classification failed")
		}
		return
	}

	// Only track trades made by wallets on the target list.
	if w.targets != nil && !w.targets.Contains(rec.Target) {
		return
	}

	w.log.WithFields(logrus.Fields{
		"signature": rec.Signature,
		"target":    rec.Target,
		"mint":      rec.Mint,
		"direction": rec.Direction,
		"slot":      rec.Slot,
	}).Info("trade observed")

	if err := w.recent.AddTrade(ctx, rec); err != nil {
		w.log.WithError(err).Warn("redis sink error")
	}

	if w.store != nil {
		if err := w.store.InsertTrade(ctx, rec); err != nil {
			w.log.WithError(err).Error("clickhouse sink error")
		}
	}
}

func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Target wallets to watch. Without a list every classified trade
	// is recorded.
	var targets *targetlist.List
	if cfg.TargetListPath != "" {
		l, err := targetlist.Load(cfg.TargetListPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load target list")
		}
		logger.WithField("targets", l.Len()).Info("loaded target list")
		targets = l
	}

	recent := sink.NewRecentStore(cfg.RedisAddr, int64(cfg.RecentTrades), logger)
	if err := recent.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer recent.Close()

	store, err := sink.NewTradeStore(sink.ClickHouseConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("ClickHouse unavailable, trades will not be persisted")
	} else {
		defer store.Close()
	}

	watcher := &Watcher{
		classifier: trade.NewClassifier(logger),
		targets:    targets,
		recent:     recent,
		store:      store,
		log:        logger,
	}

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	var keys raydium.KeySource
	if cfg.PoolRegistryPath != "" {
		reg, err := raydium.NewRegistry(cfg.PoolRegistryPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load pool registry")
		}
		keys = reg
	} else {
		keys = raydium.NewResolver(apiv3.NewClient(cfg.APIV3Url), logger)
	}
	quoter := raydium.NewQuoter(keys, rpcClient, logger)

	h := &server.Handlers{
		Quoter: quoter,
		Cache:  recent,
		Logger: logger,
	}
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:      cfg.ServerAddr,
			QuoteRate: float64(cfg.RateLimit),
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		logger.WithField("addr", cfg.ServerAddr).Info("api server starting")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("api server failed")
		}
	}()

	sub := stream.NewSubscriber(stream.Config{
		URL:          cfg.WSUrl,
		Programs:     []string{raydium.ProgramID.String()},
		PingInterval: cfg.PingInterval,
		Logger:       logger,
	})

	go func() {
		if err := sub.Run(ctx, func(n *trade.Notification) {
			watcher.Handle(ctx, n)
		}); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("feed stopped")
		}
	}()

	logger.Info("watcher running")

	<-sigCh
	logger.Info("shutting down")
	cancel()
	_ = srv.Shutdown(context.Background())
	_ = srv.WaitClosed(context.Background())
}

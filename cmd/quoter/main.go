package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"solana-amm-quoter/internal/apiv3"
	"solana-amm-quoter/internal/config"
	"solana-amm-quoter/internal/raydium"
	"solana-amm-quoter/internal/rpc"
	"solana-amm-quoter/internal/wallet"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func main() {
	loadEnv()

	mode := flag.String("mode", "quote", "quote | swap-tx")
	inStr := flag.String("in", "", "input mint (base58)")
	outStr := flag.String("out", "", "output mint (base58)")
	amount := flag.Uint64("amount", 0, "amount in base units")
	swapMode := flag.String("swap-mode", "exact_in", "exact_in | exact_out")
	slippageBps := flag.Uint64("slippage-bps", 0, "slippage in bps (default from env)")
	poolStr := flag.String("pool", "", "optional explicit pool id (base58)")
	sourceStr := flag.String("source", "", "user source token account, swap-tx mode only")
	destStr := flag.String("dest", "", "user destination token account, swap-tx mode only")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	if *inStr == "" || *outStr == "" {
		fmt.Println("missing -in or -out mint")
		os.Exit(2)
	}
	if *amount == 0 {
		fmt.Println("missing -amount (must be > 0)")
		os.Exit(2)
	}

	inputMint, err := solana.PublicKeyFromBase58(*inStr)
	if err != nil {
		fmt.Println("invalid -in mint:", err)
		os.Exit(2)
	}
	outputMint, err := solana.PublicKeyFromBase58(*outStr)
	if err != nil {
		fmt.Println("invalid -out mint:", err)
		os.Exit(2)
	}

	var pool *solana.PublicKey
	if *poolStr != "" {
		pk, err := solana.PublicKeyFromBase58(*poolStr)
		if err != nil {
			fmt.Println("invalid -pool:", err)
			os.Exit(2)
		}
		pool = &pk
	}

	sm, err := parseSwapMode(*swapMode)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	slippage := cfg.SlippageBps
	if *slippageBps > 0 {
		slippage = *slippageBps
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	keys := keySource(cfg, logger)
	quoter := raydium.NewQuoter(keys, rpcClient, logger)

	input := raydium.SwapInput{
		InputMint:   inputMint,
		OutputMint:  outputMint,
		Amount:      *amount,
		Mode:        sm,
		SlippageBps: slippage,
		Pool:        pool,
	}

	switch *mode {
	case "quote":
		quote, err := quoter.Quote(ctx, input)
		if err != nil {
			fmt.Println("quote failed:", err)
			os.Exit(1)
		}
		fmt.Printf("pool=%s mode=%s amount=%d other_amount=%d threshold=%d slippage_bps=%d\n",
			quote.PoolID, quote.Mode, quote.Amount, quote.OtherAmount, quote.OtherAmountThreshold, slippage)
	case "swap-tx":
		if err := printSwapTx(ctx, cfg, rpcClient, keys, quoter, input, *sourceStr, *destStr); err != nil {
			fmt.Println("swap-tx failed:", err)
			os.Exit(1)
		}
	default:
		fmt.Println("invalid -mode (use quote|swap-tx)")
		os.Exit(2)
	}
}

func parseSwapMode(s string) (raydium.SwapMode, error) {
	switch s {
	case "exact_in":
		return raydium.ModeExactIn, nil
	case "exact_out":
		return raydium.ModeExactOut, nil
	default:
		return 0, fmt.Errorf("invalid -swap-mode %q (use exact_in|exact_out)", s)
	}
}

// keySource prefers a local pool registry when configured and falls back
// to api-v3 discovery.
func keySource(cfg *config.Config, logger *logrus.Logger) raydium.KeySource {
	if cfg.PoolRegistryPath != "" {
		reg, err := raydium.NewRegistry(cfg.PoolRegistryPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load pool registry")
		}
		logger.WithField("pools", reg.Len()).Info("using local pool registry")
		return reg
	}
	return raydium.NewResolver(apiv3.NewClient(cfg.APIV3Url), logger)
}

// printSwapTx quotes the swap, builds the matching swap instruction and
// prints the unsigned transaction as base64.
func printSwapTx(
	ctx context.Context,
	cfg *config.Config,
	rpcClient *rpc.Client,
	keys raydium.KeySource,
	quoter *raydium.Quoter,
	input raydium.SwapInput,
	sourceStr, destStr string,
) error {
	if sourceStr == "" || destStr == "" {
		return fmt.Errorf("-source and -dest token accounts are required")
	}
	source, err := solana.PublicKeyFromBase58(sourceStr)
	if err != nil {
		return fmt.Errorf("invalid -source: %w", err)
	}
	dest, err := solana.PublicKeyFromBase58(destStr)
	if err != nil {
		return fmt.Errorf("invalid -dest: %w", err)
	}

	w, err := wallet.New(cfg.WalletPrivateKey)
	if err != nil {
		return err
	}

	pool, market, err := keys.Resolve(ctx, input.InputMint, input.OutputMint, input.Pool)
	if err != nil {
		return err
	}

	// Pin the quote to the resolved pool so the instruction and the
	// quote agree on reserves.
	input.Pool = &pool.ID
	quote, err := quoter.Quote(ctx, input)
	if err != nil {
		return err
	}

	var ix solana.Instruction
	switch input.Mode {
	case raydium.ModeExactIn:
		ix, err = raydium.BuildSwapBaseInInstruction(pool, market, quote.Amount, quote.OtherAmountThreshold, source, dest, w.PublicKey())
	case raydium.ModeExactOut:
		ix, err = raydium.BuildSwapBaseOutInstruction(pool, market, quote.OtherAmountThreshold, quote.Amount, source, dest, w.PublicKey())
	}
	if err != nil {
		return err
	}

	blockhash, _, err := rpcClient.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(w.PublicKey()),
	)
	if err != nil {
		return fmt.Errorf("build transaction: %w", err)
	}

	// Signing stays with the caller; this only assembles the message.
	encoded, err := tx.ToBase64()
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	fmt.Printf("pool=%s amount=%d threshold=%d\n", quote.PoolID, quote.Amount, quote.OtherAmountThreshold)
	fmt.Println(encoded)
	return nil
}

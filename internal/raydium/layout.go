package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"solana-amm-quoter/internal/fixedpoint"
)

// LiquidityStateSize is the serialized size of an AMM v4 liquidity
// state account.
const LiquidityStateSize = 752

// LiquidityStateV4 mirrors the on-chain account field for field, in
// layout order with the ledger's base/quote naming. It is the raw decode
// target; PoolState is the canonical model built from it.
type LiquidityStateV4 struct {
	Status             uint64
	Nonce              uint64
	MaxOrder           uint64
	Depth              uint64
	BaseDecimal        uint64
	QuoteDecimal       uint64
	State              uint64
	ResetFlag          uint64
	MinSize            uint64
	VolMaxCutRatio     uint64
	AmountWaveRatio    uint64
	BaseLotSize        uint64
	QuoteLotSize       uint64
	MinPriceMultiplier uint64
	MaxPriceMultiplier uint64
	SystemDecimalValue uint64

	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64

	BaseNeedTakePnl     uint64
	QuoteNeedTakePnl    uint64
	QuoteTotalPnl       uint64
	BaseTotalPnl        uint64
	PoolOpenTime        uint64
	PunishPcAmount      uint64
	PunishCoinAmount    uint64
	OrderbookToInitTime uint64

	SwapBaseInAmount   fixedpoint.U128
	SwapQuoteOutAmount fixedpoint.U128
	SwapBase2QuoteFee  uint64
	SwapQuoteInAmount  fixedpoint.U128
	SwapBaseOutAmount  fixedpoint.U128
	SwapQuote2BaseFee  uint64

	BaseVault       solana.PublicKey
	QuoteVault      solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	LpMint          solana.PublicKey
	OpenOrders      solana.PublicKey
	MarketID        solana.PublicKey
	MarketProgramID solana.PublicKey
	TargetOrders    solana.PublicKey
	WithdrawQueue   solana.PublicKey
	LpVault         solana.PublicKey
	Owner           solana.PublicKey

	LpReserve uint64
	// trailing [3]u64 padding is validated by the size check and dropped
}

// DecodeLiquidityStateV4 decodes a 752-byte AMM v4 account. Pure and
// total: the same bytes always produce the same record.
func DecodeLiquidityStateV4(data []byte) (*LiquidityStateV4, error) {
	if len(data) != LiquidityStateSize {
		return nil, fmt.Errorf("%w: liquidity state size %d, want %d", ErrLayout, len(data), LiquidityStateSize)
	}

	off := 0
	u64 := func() uint64 {
		v := binary.LittleEndian.Uint64(data[off:])
		off += 8
		return v
	}
	u128 := func() fixedpoint.U128 {
		v, _ := fixedpoint.FromLittleEndian(data[off : off+16])
		off += 16
		return v
	}
	pubkey := func() solana.PublicKey {
		var pk solana.PublicKey
		copy(pk[:], data[off:off+32])
		off += 32
		return pk
	}

	s := &LiquidityStateV4{
		Status:             u64(),
		Nonce:              u64(),
		MaxOrder:           u64(),
		Depth:              u64(),
		BaseDecimal:        u64(),
		QuoteDecimal:       u64(),
		State:              u64(),
		ResetFlag:          u64(),
		MinSize:            u64(),
		VolMaxCutRatio:     u64(),
		AmountWaveRatio:    u64(),
		BaseLotSize:        u64(),
		QuoteLotSize:       u64(),
		MinPriceMultiplier: u64(),
		MaxPriceMultiplier: u64(),
		SystemDecimalValue: u64(),

		MinSeparateNumerator:   u64(),
		MinSeparateDenominator: u64(),
		TradeFeeNumerator:      u64(),
		TradeFeeDenominator:    u64(),
		PnlNumerator:           u64(),
		PnlDenominator:         u64(),
		SwapFeeNumerator:       u64(),
		SwapFeeDenominator:     u64(),

		BaseNeedTakePnl:     u64(),
		QuoteNeedTakePnl:    u64(),
		QuoteTotalPnl:       u64(),
		BaseTotalPnl:        u64(),
		PoolOpenTime:        u64(),
		PunishPcAmount:      u64(),
		PunishCoinAmount:    u64(),
		OrderbookToInitTime: u64(),
	}

	s.SwapBaseInAmount = u128()
	s.SwapQuoteOutAmount = u128()
	s.SwapBase2QuoteFee = u64()
	s.SwapQuoteInAmount = u128()
	s.SwapBaseOutAmount = u128()
	s.SwapQuote2BaseFee = u64()

	s.BaseVault = pubkey()
	s.QuoteVault = pubkey()
	s.BaseMint = pubkey()
	s.QuoteMint = pubkey()
	s.LpMint = pubkey()
	s.OpenOrders = pubkey()
	s.MarketID = pubkey()
	s.MarketProgramID = pubkey()
	s.TargetOrders = pubkey()
	s.WithdrawQueue = pubkey()
	s.LpVault = pubkey()
	s.Owner = pubkey()

	s.LpReserve = u64()
	return s, nil
}

// ammInfo is the API-shaped intermediate: the ledger's generically
// ordered base/quote fields renamed to the protocol's coin/pc
// convention. Both the direct ledger layout and the externally reported
// API shape normalize through this record into PoolState.
type ammInfo struct {
	status   uint64
	nonce    uint64
	maxOrder uint64
	depth    uint64

	coinDecimals uint64
	pcDecimals   uint64

	minSeparateNumerator   uint64
	minSeparateDenominator uint64
	tradeFeeNumerator      uint64
	tradeFeeDenominator    uint64
	pnlNumerator           uint64
	pnlDenominator         uint64
	swapFeeNumerator       uint64
	swapFeeDenominator     uint64

	coinNeedTakePnl uint64
	pcNeedTakePnl   uint64

	coinVault    solana.PublicKey
	pcVault      solana.PublicKey
	coinMint     solana.PublicKey
	pcMint       solana.PublicKey
	lpMint       solana.PublicKey
	openOrders   solana.PublicKey
	market       solana.PublicKey
	marketProg   solana.PublicKey
	targetOrders solana.PublicKey
	owner        solana.PublicKey
	lpReserve    uint64
}

func (s *LiquidityStateV4) ammInfo() ammInfo {
	return ammInfo{
		status:       s.Status,
		nonce:        s.Nonce,
		maxOrder:     s.MaxOrder,
		depth:        s.Depth,
		coinDecimals: s.BaseDecimal,
		pcDecimals:   s.QuoteDecimal,

		minSeparateNumerator:   s.MinSeparateNumerator,
		minSeparateDenominator: s.MinSeparateDenominator,
		tradeFeeNumerator:      s.TradeFeeNumerator,
		tradeFeeDenominator:    s.TradeFeeDenominator,
		pnlNumerator:           s.PnlNumerator,
		pnlDenominator:         s.PnlDenominator,
		swapFeeNumerator:       s.SwapFeeNumerator,
		swapFeeDenominator:     s.SwapFeeDenominator,

		coinNeedTakePnl: s.BaseNeedTakePnl,
		pcNeedTakePnl:   s.QuoteNeedTakePnl,

		coinVault:    s.BaseVault,
		pcVault:      s.QuoteVault,
		coinMint:     s.BaseMint,
		pcMint:       s.QuoteMint,
		lpMint:       s.LpMint,
		openOrders:   s.OpenOrders,
		market:       s.MarketID,
		marketProg:   s.MarketProgramID,
		targetOrders: s.TargetOrders,
		owner:        s.Owner,
		lpReserve:    s.LpReserve,
	}
}

// PoolState is the canonical read-only pool snapshot used by reserve
// accounting and pricing. Fetched fresh per quote, never mutated here.
type PoolState struct {
	Status       Status
	Nonce        uint64
	MaxOrder     uint64
	Depth        uint64
	CoinDecimals uint64
	PcDecimals   uint64

	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64

	CoinNeedTakePnl uint64
	PcNeedTakePnl   uint64

	CoinVault    solana.PublicKey
	PcVault      solana.PublicKey
	CoinMint     solana.PublicKey
	PcMint       solana.PublicKey
	LpMint       solana.PublicKey
	OpenOrders   solana.PublicKey
	Market       solana.PublicKey
	MarketProg   solana.PublicKey
	TargetOrders solana.PublicKey
	Owner        solana.PublicKey
	LpReserve    uint64
}

// PoolState normalizes the raw record into the canonical model,
// validating the fee schedule and the status code.
func (s *LiquidityStateV4) PoolState() (*PoolState, error) {
	info := s.ammInfo()
	status := Status(info.status)
	if !status.Valid() {
		return nil, fmt.Errorf("raydium: unknown pool status %d", info.status)
	}
	if info.swapFeeNumerator >= info.swapFeeDenominator {
		return nil, fmt.Errorf("raydium: swap fee %d/%d is not below one",
			info.swapFeeNumerator, info.swapFeeDenominator)
	}
	return &PoolState{
		Status:       status,
		Nonce:        info.nonce,
		MaxOrder:     info.maxOrder,
		Depth:        info.depth,
		CoinDecimals: info.coinDecimals,
		PcDecimals:   info.pcDecimals,

		MinSeparateNumerator:   info.minSeparateNumerator,
		MinSeparateDenominator: info.minSeparateDenominator,
		TradeFeeNumerator:      info.tradeFeeNumerator,
		TradeFeeDenominator:    info.tradeFeeDenominator,
		PnlNumerator:           info.pnlNumerator,
		PnlDenominator:         info.pnlDenominator,
		SwapFeeNumerator:       info.swapFeeNumerator,
		SwapFeeDenominator:     info.swapFeeDenominator,

		CoinNeedTakePnl: info.coinNeedTakePnl,
		PcNeedTakePnl:   info.pcNeedTakePnl,

		CoinVault:    info.coinVault,
		PcVault:      info.pcVault,
		CoinMint:     info.coinMint,
		PcMint:       info.pcMint,
		LpMint:       info.lpMint,
		OpenOrders:   info.openOrders,
		Market:       info.market,
		MarketProg:   info.marketProg,
		TargetOrders: info.targetOrders,
		Owner:        info.owner,
		LpReserve:    info.lpReserve,
	}, nil
}

// DecodePoolState is the common path: raw bytes straight to the
// canonical model.
func DecodePoolState(data []byte) (*PoolState, error) {
	raw, err := DecodeLiquidityStateV4(data)
	if err != nil {
		return nil, err
	}
	return raw.PoolState()
}

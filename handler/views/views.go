package views

import (
	"lendpool/core"

	"github.com/shopspring/decimal"
)

// Pool pool view
type Pool struct {
	core.PoolSummary
	ReserveFactor      decimal.Decimal `json:"reserve_factor"`
	BaseRate           decimal.Decimal `json:"base_rate"`
	Multiplier         decimal.Decimal `json:"multiplier"`
	JumpMultiplier     decimal.Decimal `json:"jump_multiplier"`
	OptimalUtilization decimal.Decimal `json:"optimal_utilization"`
	Active             bool            `json:"active"`
}

// Deposit deposit account view
type Deposit struct {
	core.Deposit
}

// Loan loan view with live projections
type Loan struct {
	core.Loan
	LiveInterest    decimal.Decimal `json:"live_interest"`
	CollateralRatio decimal.Decimal `json:"collateral_ratio"`
}

package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PoolSummary read-only pool state with live rates.
type PoolSummary struct {
	AssetID            string          `json:"asset_id"`
	Symbol             string          `json:"symbol"`
	TotalDeposits      decimal.Decimal `json:"total_deposits"`
	TotalBorrows       decimal.Decimal `json:"total_borrows"`
	AvailableLiquidity decimal.Decimal `json:"available_liquidity"`
	Utilization        decimal.Decimal `json:"utilization"`
	BorrowRate         decimal.Decimal `json:"borrow_rate"`
	SupplyRate         decimal.Decimal `json:"supply_rate"`
}

// ILendingService the lending engine. Every mutating operation is serialized
// per pool, validates and performs external transfers before committing any
// state, and either fully succeeds or leaves nothing mutated.
type ILendingService interface {
	CreatePool(ctx context.Context, assetID, symbol string, baseRate, multiplier, jumpMultiplier, optimalUtilization decimal.Decimal) (*Pool, error)

	Deposit(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Deposit, error)
	Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*Deposit, error)
	Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal, collateralAssetID string, collateralAmount decimal.Decimal) (*Loan, error)
	Repay(ctx context.Context, userID string, loanID int64) (*Loan, error)
	Liquidate(ctx context.Context, liquidatorID, userID string, loanID int64) (*Loan, error)

	PoolSummary(ctx context.Context, assetID string) (*PoolSummary, error)
	ListPools(ctx context.Context) ([]*PoolSummary, error)
	ListAssets(ctx context.Context) ([]string, error)
	GetDeposit(ctx context.Context, userID, assetID string) (*Deposit, error)
	GetLoan(ctx context.Context, userID string, loanID int64) (*Loan, error)
	ListLoans(ctx context.Context, userID string) ([]*Loan, error)
	// LoanInterest live interest projection, side-effect free
	LoanInterest(ctx context.Context, userID string, loanID int64) (decimal.Decimal, error)
	// CollateralRatio live collateral ratio in bps, side-effect free
	CollateralRatio(ctx context.Context, userID string, loanID int64) (decimal.Decimal, error)
}

package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool per-asset lending pool aggregates and rate parameters.
//
// Amounts are integers in the asset's smallest unit; rate parameters are
// integer basis points. TotalBorrows <= TotalDeposits holds after every
// committed operation.
type Pool struct {
	ID            uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID       string          `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol        string          `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	TotalDeposits decimal.Decimal `sql:"type:decimal(32,0)" json:"total_deposits"`
	TotalBorrows  decimal.Decimal `sql:"type:decimal(32,0)" json:"total_borrows"`
	// TotalShares outstanding share units across all deposit accounts
	TotalShares decimal.Decimal `sql:"type:decimal(32,0)" json:"total_shares"`
	// Reserves protocol cut of realized borrower interest
	Reserves decimal.Decimal `sql:"type:decimal(32,0)" json:"reserves"`
	// ReserveFactor share of borrower interest kept by the protocol, bps
	ReserveFactor decimal.Decimal `sql:"type:decimal(8,0)" json:"reserve_factor"`
	// BaseRate annualized base borrow rate, bps
	BaseRate decimal.Decimal `sql:"type:decimal(8,0)" json:"base_rate"`
	// Multiplier rate slope below the kink, bps
	Multiplier decimal.Decimal `sql:"type:decimal(8,0)" json:"multiplier"`
	// JumpMultiplier rate slope above the kink, bps
	JumpMultiplier decimal.Decimal `sql:"type:decimal(8,0)" json:"jump_multiplier"`
	// OptimalUtilization the kink, bps
	OptimalUtilization decimal.Decimal `sql:"type:decimal(8,0)" json:"optimal_utilization"`
	// cached rate snapshot, refreshed on every committed operation
	UtilizationRate decimal.Decimal `sql:"type:decimal(8,0)" json:"utilization_rate"`
	BorrowRate      decimal.Decimal `sql:"type:decimal(8,0)" json:"borrow_rate"`
	SupplyRate      decimal.Decimal `sql:"type:decimal(8,0)" json:"supply_rate"`
	Active          bool            `sql:"default:1" json:"active"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AvailableLiquidity deposits not currently lent out.
func (p *Pool) AvailableLiquidity() decimal.Decimal {
	return p.TotalDeposits.Sub(p.TotalBorrows)
}

// IPoolStore pool store interface
type IPoolStore interface {
	Create(ctx context.Context, tx *db.DB, pool *Pool) error
	Find(ctx context.Context, assetID string) (*Pool, error)
	FindBySymbol(ctx context.Context, symbol string) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}

package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const (
	// OpDeposit deposit committed
	OpDeposit = "deposit"
	// OpWithdraw withdrawal committed
	OpWithdraw = "withdraw"
	// OpBorrow loan opened
	OpBorrow = "borrow"
	// OpRepay loan repaid
	OpRepay = "repay"
	// OpLiquidate loan liquidated
	OpLiquidate = "liquidate"
	// OpPoolCreate pool created
	OpPoolCreate = "pool_create"
	// OpPoolRates pool rate snapshot refreshed
	OpPoolRates = "pool_rates"
)

// Event one row per committed operation, emitted as pure data for any
// downstream observer.
type Event struct {
	ID      uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID string          `sql:"size:36;unique_index:event_trace_idx" json:"trace_id"`
	Op      string          `sql:"size:20;index:event_op_idx" json:"op"`
	UserID  string          `sql:"size:36" json:"user_id"`
	AssetID string          `sql:"size:36" json:"asset_id"`
	Amount  decimal.Decimal `sql:"type:decimal(32,0)" json:"amount"`
	// LoanID -1 when the operation has no loan
	LoanID int64 `sql:"default:-1" json:"loan_id"`
	// Payload msgpack-encoded operation detail
	Payload   []byte    `sql:"type:blob" json:"-"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IEventStore event sink interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
}

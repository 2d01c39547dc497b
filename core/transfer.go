package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer a committed custody movement, recorded for audit.
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	AssetID   string          `sql:"size:36" json:"asset_id"`
	FromID    string          `sql:"size:36;index:transfer_from_idx" json:"from_id"`
	ToID      string          `sql:"size:36;index:transfer_to_idx" json:"to_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,0)" json:"amount"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransferService moves asset value between a user and the pool's custody.
// The lending engine treats any error as a hard abort: no engine state is
// committed when a transfer fails.
type ITransferService interface {
	TransferIn(ctx context.Context, assetID, from string, amount decimal.Decimal) error
	TransferOut(ctx context.Context, assetID, to string, amount decimal.Decimal) error
}

// Balance custodial balance row backing the default transfer service.
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	OwnerID   string          `sql:"size:36;unique_index:balance_idx" json:"owner_id"`
	AssetID   string          `sql:"size:36;unique_index:balance_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,0)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IWalletStore custodial balance store interface
type IWalletStore interface {
	Find(ctx context.Context, ownerID, assetID string) (*Balance, error)
	// Move debits from and credits to atomically; fails when the debit
	// side has insufficient balance
	Move(ctx context.Context, from, to, assetID string, amount decimal.Decimal, traceID string) error
	Credit(ctx context.Context, ownerID, assetID string, amount decimal.Decimal) error
}

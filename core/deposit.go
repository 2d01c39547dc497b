package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Deposit per (user, asset) share-based deposit position.
//
// Principal excludes interest accrued since LastUpdateTime; settled interest
// accumulates in AccruedInterest until it is folded back on the next deposit
// or paid out on withdrawal.
type Deposit struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:deposit_idx" json:"user_id"`
	AssetID   string          `sql:"size:36;unique_index:deposit_idx" json:"asset_id"`
	Principal decimal.Decimal `sql:"type:decimal(32,0)" json:"principal"`
	// Shares ownership units in the pool's share supply, minted and burned
	// at the exchange rate current at the time of the operation
	Shares          decimal.Decimal `sql:"type:decimal(32,0)" json:"shares"`
	AccruedInterest decimal.Decimal `sql:"type:decimal(32,0)" json:"accrued_interest"`
	LastUpdateTime  time.Time       `json:"last_update_time"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IDepositStore deposit store interface. Find returns a zero-ID record when
// the account does not exist yet.
type IDepositStore interface {
	Save(ctx context.Context, tx *db.DB, deposit *Deposit) error
	Find(ctx context.Context, userID, assetID string) (*Deposit, error)
	FindByUser(ctx context.Context, userID string) ([]*Deposit, error)
	Update(ctx context.Context, tx *db.DB, deposit *Deposit) error
}

package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const (
	// LoanCloseRepaid loan closed by full repayment
	LoanCloseRepaid = "repaid"
	// LoanCloseLiquidated loan closed by liquidation
	LoanCloseLiquidated = "liquidated"
)

// Loan per (user, loan id) borrow position. LoanID is assigned per user,
// monotonically from 0, and never reused. Principal is fixed at origination;
// a loan closes exactly once, by repayment or liquidation.
type Loan struct {
	ID                uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID            string          `sql:"size:36;unique_index:loan_idx" json:"user_id"`
	LoanID            int64           `sql:"unique_index:loan_idx" json:"loan_id"`
	AssetID           string          `sql:"size:36;index:loan_asset_idx" json:"asset_id"`
	Principal         decimal.Decimal `sql:"type:decimal(32,0)" json:"principal"`
	CollateralAssetID string          `sql:"size:36" json:"collateral_asset_id"`
	CollateralAmount  decimal.Decimal `sql:"type:decimal(32,0)" json:"collateral_amount"`
	// AccruedInterest interest realized up to LastUpdateTime; live debt adds
	// the projection for the time since
	AccruedInterest decimal.Decimal `sql:"type:decimal(32,0)" json:"accrued_interest"`
	BorrowTime      time.Time       `json:"borrow_time"`
	LastUpdateTime  time.Time       `json:"last_update_time"`
	Active          bool            `sql:"default:1" json:"active"`
	CloseReason     string          `sql:"size:20" json:"close_reason,omitempty"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ILoanStore loan store interface. Find returns a zero-ID record when the
// loan does not exist.
type ILoanStore interface {
	Create(ctx context.Context, tx *db.DB, loan *Loan) error
	Find(ctx context.Context, userID string, loanID int64) (*Loan, error)
	FindByUser(ctx context.Context, userID string) ([]*Loan, error)
	FindByAsset(ctx context.Context, assetID string) ([]*Loan, error)
	// NextLoanID the next per-user loan id, starting at 0
	NextLoanID(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, tx *db.DB, loan *Loan) error
}

package loan

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type loanStore struct {
	db *db.DB
}

// New new loan store
func New(db *db.DB) core.ILoanStore {
	return &loanStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Loan{})
		if err := tx.AutoMigrate(core.Loan{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *loanStore) Create(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	return tx.Update().Create(loan).Error
}

func (s *loanStore) Find(ctx context.Context, userID string, loanID int64) (*core.Loan, error) {
	var loan core.Loan
	if err := s.db.View().Where("user_id=? and loan_id=?", userID, loanID).First(&loan).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Loan{}, nil
		}
		return nil, err
	}

	return &loan, nil
}

func (s *loanStore) FindByUser(ctx context.Context, userID string) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("user_id=?", userID).Order("loan_id").Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

func (s *loanStore) FindByAsset(ctx context.Context, assetID string) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("asset_id=?", assetID).Find(&loans).Error; err != nil {
		return nil, err
	}

	return loans, nil
}

// NextLoanID loan ids are per user, monotonic from 0 and never reused, so
// the next id is one past the highest ever assigned.
func (s *loanStore) NextLoanID(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Loan{}).Where("user_id=?", userID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *loanStore) Update(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	version := loan.Version
	loan.Version++

	// column map instead of a struct so zero values (a closed loan's
	// active flag) are written through
	updates := map[string]interface{}{
		"accrued_interest": loan.AccruedInterest,
		"last_update_time": loan.LastUpdateTime,
		"active":           loan.Active,
		"close_reason":     loan.CloseReason,
		"version":          loan.Version,
	}

	if err := tx.Update().Model(core.Loan{}).
		Where("user_id=? and loan_id=? and version=?", loan.UserID, loan.LoanID, version).
		Updates(updates).Error; err != nil {
		return err
	}

	return nil
}

package lending

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/internal/ratemodel"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Borrow opens a loan of amount against collateral of a different asset.
// Collateral is custodied for the life of the loan at a 1:1 price
// assumption; the opening collateral ratio must be at least 150%.
func (s *service) Borrow(ctx context.Context, userID, assetID string, amount decimal.Decimal, collateralAssetID string, collateralAmount decimal.Decimal) (*core.Loan, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if err := validAmount(collateralAmount); err != nil {
		return nil, err
	}
	if assetID == collateralAssetID {
		return nil, fmt.Errorf("%w: borrow and collateral asset are both %s", core.ErrInvalidInput, assetID)
	}

	// the user lock keeps per-user loan ids monotonic under concurrent borrows
	unlockUser := s.lockPool("user:" + userID)
	defer unlockUser()

	unlock := s.lockPool(assetID)
	defer unlock()

	pool, err := s.findActivePool(ctx, assetID)
	if err != nil {
		return nil, err
	}

	// collateral must be a supported asset; its pool aggregates stay untouched
	if _, err := s.findActivePool(ctx, collateralAssetID); err != nil {
		return nil, err
	}

	if pool.AvailableLiquidity().LessThan(amount) {
		return nil, fmt.Errorf("%w: available %s < requested %s", core.ErrInsufficientLiquidity, pool.AvailableLiquidity(), amount)
	}

	ratio := ratemodel.CollateralRatio(collateralAmount, amount)
	if ratio.LessThan(ratemodel.MinCollateralRatio) {
		return nil, fmt.Errorf("%w: ratio %s bps < required %s bps", core.ErrInsufficientCollateral, ratio, ratemodel.MinCollateralRatio)
	}

	loanID, err := s.loans.NextLoanID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// custody the collateral, then release the borrowed funds; unwind the
	// custody if the release fails so nothing is mutated on abort
	if err := s.transfers.TransferIn(ctx, collateralAssetID, userID, collateralAmount); err != nil {
		return nil, fmt.Errorf("%w: custody %s %s: %v", core.ErrTransferFailed, collateralAssetID, collateralAmount, err)
	}
	if err := s.transfers.TransferOut(ctx, assetID, userID, amount); err != nil {
		if rbErr := s.transfers.TransferOut(ctx, collateralAssetID, userID, collateralAmount); rbErr != nil {
			logger.FromContext(ctx).WithError(rbErr).Errorln("collateral unwind failed:", collateralAssetID, collateralAmount)
		}
		return nil, fmt.Errorf("%w: release %s %s: %v", core.ErrTransferFailed, assetID, amount, err)
	}

	now := s.clock.Now()
	loan := &core.Loan{
		UserID:            userID,
		LoanID:            loanID,
		AssetID:           assetID,
		Principal:         amount,
		CollateralAssetID: collateralAssetID,
		CollateralAmount:  collateralAmount,
		AccruedInterest:   decimal.Zero,
		BorrowTime:        now,
		LastUpdateTime:    now,
		Active:            true,
	}

	pool.TotalBorrows = pool.TotalBorrows.Add(amount)
	refreshRates(pool)

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.loans.Create(ctx, tx, loan); err != nil {
			return err
		}

		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return err
		}

		return s.emitEvent(ctx, tx, &core.Event{
			Op:      core.OpBorrow,
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
			LoanID:  loanID,
		}, map[string]interface{}{
			"collateral_asset":  collateralAssetID,
			"collateral_amount": collateralAmount.String(),
			"collateral_ratio":  ratio.String(),
			"total_borrows":     pool.TotalBorrows.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// Repay settles the full live debt, returns the collateral in full and
// closes the loan. Pool borrows drop by the original principal only; the
// interest portion is pure yield.
func (s *service) Repay(ctx context.Context, userID string, loanID int64) (*core.Loan, error) {
	loan, err := s.findActiveLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockPool(loan.AssetID)
	defer unlock()

	// re-validate under the pool lock; a concurrent liquidation may have
	// closed the loan between the read above and the lock
	loan, err = s.findActiveLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	pool, err := s.findActivePool(ctx, loan.AssetID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	interest := loanInterest(loan, pool, now)
	debt := loan.Principal.Add(loan.AccruedInterest).Add(interest)

	if err := s.transfers.TransferIn(ctx, loan.AssetID, userID, debt); err != nil {
		return nil, fmt.Errorf("%w: repay %s %s: %v", core.ErrTransferFailed, loan.AssetID, debt, err)
	}
	if err := s.transfers.TransferOut(ctx, loan.CollateralAssetID, userID, loan.CollateralAmount); err != nil {
		if rbErr := s.transfers.TransferOut(ctx, loan.AssetID, userID, debt); rbErr != nil {
			logger.FromContext(ctx).WithError(rbErr).Errorln("repayment unwind failed:", loan.AssetID, debt)
		}
		return nil, fmt.Errorf("%w: release collateral %s %s: %v", core.ErrTransferFailed, loan.CollateralAssetID, loan.CollateralAmount, err)
	}

	return s.closeLoan(ctx, pool, loan, interest, now, core.OpRepay, userID, core.LoanCloseRepaid, debt)
}

// Liquidate lets any payer settle an undercollateralized loan in exchange
// for the collateral plus the liquidation bonus. Permitted only below the
// 120% threshold.
func (s *service) Liquidate(ctx context.Context, liquidatorID, userID string, loanID int64) (*core.Loan, error) {
	loan, err := s.findActiveLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockPool(loan.AssetID)
	defer unlock()

	// re-validate under the pool lock; the borrower may have repaid between
	// the read above and the lock
	loan, err = s.findActiveLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	pool, err := s.findActivePool(ctx, loan.AssetID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	interest := loanInterest(loan, pool, now)
	debt := loan.Principal.Add(loan.AccruedInterest).Add(interest)

	ratio := ratemodel.CollateralRatio(loan.CollateralAmount, debt)
	if ratio.GreaterThanOrEqual(ratemodel.LiquidationThreshold) {
		return nil, fmt.Errorf("%w: ratio %s bps >= threshold %s bps", core.ErrLoanNotLiquidatable, ratio, ratemodel.LiquidationThreshold)
	}

	payout := ratemodel.LiquidationPayout(loan.CollateralAmount)

	if err := s.transfers.TransferIn(ctx, loan.AssetID, liquidatorID, debt); err != nil {
		return nil, fmt.Errorf("%w: debt payment %s %s: %v", core.ErrTransferFailed, loan.AssetID, debt, err)
	}
	if err := s.transfers.TransferOut(ctx, loan.CollateralAssetID, liquidatorID, payout); err != nil {
		if rbErr := s.transfers.TransferOut(ctx, loan.AssetID, liquidatorID, debt); rbErr != nil {
			logger.FromContext(ctx).WithError(rbErr).Errorln("liquidation unwind failed:", loan.AssetID, debt)
		}
		return nil, fmt.Errorf("%w: seize collateral %s %s: %v", core.ErrTransferFailed, loan.CollateralAssetID, payout, err)
	}

	return s.closeLoan(ctx, pool, loan, interest, now, core.OpLiquidate, liquidatorID, core.LoanCloseLiquidated, debt)
}

func (s *service) findActiveLoan(ctx context.Context, userID string, loanID int64) (*core.Loan, error) {
	loan, err := s.loans.Find(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	if loan.ID == 0 {
		return nil, fmt.Errorf("%w: unknown loan %d for user %s", core.ErrInvalidInput, loanID, userID)
	}
	if !loan.Active {
		return nil, fmt.Errorf("%w: loan %d for user %s is closed (%s)", core.ErrInvalidInput, loanID, userID, loan.CloseReason)
	}

	return loan, nil
}

func (s *service) closeLoan(ctx context.Context, pool *core.Pool, loan *core.Loan, interest decimal.Decimal, now time.Time, op, actorID, reason string, debt decimal.Decimal) (*core.Loan, error) {
	loan.AccruedInterest = loan.AccruedInterest.Add(interest)
	loan.LastUpdateTime = now
	loan.Active = false
	loan.CloseReason = reason

	reserveCut := number.DivTrunc(loan.AccruedInterest.Mul(pool.ReserveFactor), ratemodel.BpsScale)
	pool.TotalBorrows = pool.TotalBorrows.Sub(loan.Principal)
	pool.Reserves = pool.Reserves.Add(reserveCut)
	refreshRates(pool)

	err := s.db.Tx(func(tx *db.DB) error {
		if err := s.loans.Update(ctx, tx, loan); err != nil {
			return err
		}

		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return err
		}

		return s.emitEvent(ctx, tx, &core.Event{
			Op:      op,
			UserID:  actorID,
			AssetID: loan.AssetID,
			Amount:  debt,
			LoanID:  loan.LoanID,
		}, map[string]interface{}{
			"borrower":          loan.UserID,
			"principal":         loan.Principal.String(),
			"realized_interest": loan.AccruedInterest.String(),
			"reserve_cut":       reserveCut.String(),
			"total_borrows":     pool.TotalBorrows.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

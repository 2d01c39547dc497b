package lending

import (
	"context"
	"fmt"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Deposit supplies amount of asset to the pool. Accrued interest realized
// since the last settlement is folded back into principal first, so the
// folded interest starts earning shares too.
func (s *service) Deposit(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Deposit, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.lockPool(assetID)
	defer unlock()

	pool, err := s.findActivePool(ctx, assetID)
	if err != nil {
		return nil, err
	}

	deposit, err := s.deposits.Find(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	settleDeposit(deposit, pool, now)

	folded := deposit.AccruedInterest
	credit := amount.Add(folded)
	shares := sharesForAmount(pool, credit)

	// only the fresh amount moves; folded interest is already in custody
	if err := s.transfers.TransferIn(ctx, assetID, userID, amount); err != nil {
		return nil, fmt.Errorf("%w: transfer in %s %s: %v", core.ErrTransferFailed, assetID, amount, err)
	}

	pool.TotalDeposits = pool.TotalDeposits.Add(credit)
	pool.TotalShares = pool.TotalShares.Add(shares)
	refreshRates(pool)

	deposit.Principal = deposit.Principal.Add(credit)
	deposit.Shares = deposit.Shares.Add(shares)
	deposit.AccruedInterest = decimal.Zero

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return err
		}

		if err := s.deposits.Save(ctx, tx, deposit); err != nil {
			return err
		}

		return s.emitEvent(ctx, tx, &core.Event{
			Op:      core.OpDeposit,
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
			LoanID:  -1,
		}, map[string]interface{}{
			"folded_interest": folded.String(),
			"shares_minted":   shares.String(),
			"total_deposits":  pool.TotalDeposits.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return deposit, nil
}

// Withdraw redeems amount of principal. Shares burn proportionally at the
// account's own principal/share ratio, and any settled accrued interest is
// paid out on top of the requested amount.
func (s *service) Withdraw(ctx context.Context, userID, assetID string, amount decimal.Decimal) (*core.Deposit, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	unlock := s.lockPool(assetID)
	defer unlock()

	pool, err := s.findActivePool(ctx, assetID)
	if err != nil {
		return nil, err
	}

	deposit, err := s.deposits.Find(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	if deposit.ID == 0 {
		return nil, fmt.Errorf("%w: no deposit account for user %s asset %s", core.ErrInvalidInput, userID, assetID)
	}

	now := s.clock.Now()
	settleDeposit(deposit, pool, now)

	if deposit.Principal.LessThan(amount) {
		return nil, fmt.Errorf("%w: withdraw %s exceeds principal %s", core.ErrInvalidInput, amount, deposit.Principal)
	}

	if pool.AvailableLiquidity().LessThan(amount) {
		return nil, fmt.Errorf("%w: available %s < requested %s", core.ErrInsufficientLiquidity, pool.AvailableLiquidity(), amount)
	}

	sharesToBurn := number.DivTrunc(amount.Mul(deposit.Shares), deposit.Principal)
	interest := deposit.AccruedInterest
	payout := amount.Add(interest)

	if err := s.transfers.TransferOut(ctx, assetID, userID, payout); err != nil {
		return nil, fmt.Errorf("%w: transfer out %s %s: %v", core.ErrTransferFailed, assetID, payout, err)
	}

	pool.TotalDeposits = pool.TotalDeposits.Sub(amount)
	pool.TotalShares = pool.TotalShares.Sub(sharesToBurn)
	refreshRates(pool)

	deposit.Principal = deposit.Principal.Sub(amount)
	deposit.Shares = deposit.Shares.Sub(sharesToBurn)
	deposit.AccruedInterest = decimal.Zero

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return err
		}

		if err := s.deposits.Update(ctx, tx, deposit); err != nil {
			return err
		}

		return s.emitEvent(ctx, tx, &core.Event{
			Op:      core.OpWithdraw,
			UserID:  userID,
			AssetID: assetID,
			Amount:  amount,
			LoanID:  -1,
		}, map[string]interface{}{
			"interest_paid":  interest.String(),
			"shares_burned":  sharesToBurn.String(),
			"total_deposits": pool.TotalDeposits.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return deposit, nil
}

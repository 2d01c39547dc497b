package lending

import (
	"context"
	"fmt"
	"strings"

	"lendpool/core"
	"lendpool/internal/ratemodel"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// CreatePool registers a pool for an asset with the default 10% reserve
// factor. Parameters are integer basis points; an optimal utilization of
// zero is rejected here so the below-kink division never sees it.
func (s *service) CreatePool(ctx context.Context, assetID, symbol string, baseRate, multiplier, jumpMultiplier, optimalUtilization decimal.Decimal) (*core.Pool, error) {
	if assetID == "" || symbol == "" {
		return nil, fmt.Errorf("%w: asset id and symbol are required", core.ErrInvalidPoolParams)
	}

	for _, p := range []decimal.Decimal{baseRate, multiplier, jumpMultiplier, optimalUtilization} {
		if p.IsNegative() || !number.IsIntegral(p) {
			return nil, fmt.Errorf("%w: rate parameters must be non-negative integer bps", core.ErrInvalidPoolParams)
		}
	}

	if !optimalUtilization.IsPositive() || optimalUtilization.GreaterThan(ratemodel.BpsScale) {
		return nil, fmt.Errorf("%w: optimal utilization %s bps outside (0, 10000]", core.ErrInvalidPoolParams, optimalUtilization)
	}

	unlock := s.lockPool(assetID)
	defer unlock()

	existing, err := s.pools.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if existing.ID > 0 {
		return nil, fmt.Errorf("%w: pool for asset %s already exists", core.ErrPoolExists, assetID)
	}

	pool := &core.Pool{
		AssetID:            assetID,
		Symbol:             strings.ToUpper(symbol),
		TotalDeposits:      decimal.Zero,
		TotalBorrows:       decimal.Zero,
		TotalShares:        decimal.Zero,
		Reserves:           decimal.Zero,
		ReserveFactor:      ratemodel.DefaultReserveFactor,
		BaseRate:           baseRate,
		Multiplier:         multiplier,
		JumpMultiplier:     jumpMultiplier,
		OptimalUtilization: optimalUtilization,
		Active:             true,
	}
	refreshRates(pool)

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.pools.Create(ctx, tx, pool); err != nil {
			return err
		}

		return s.emitEvent(ctx, tx, &core.Event{
			Op:      core.OpPoolCreate,
			AssetID: assetID,
			Amount:  decimal.Zero,
			LoanID:  -1,
		}, map[string]interface{}{
			"symbol":              pool.Symbol,
			"base_rate":           baseRate.String(),
			"multiplier":          multiplier.String(),
			"jump_multiplier":     jumpMultiplier.String(),
			"optimal_utilization": optimalUtilization.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return pool, nil
}

func (s *service) PoolSummary(ctx context.Context, assetID string) (*core.PoolSummary, error) {
	pool, err := s.findActivePool(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return poolSummary(pool), nil
}

func (s *service) ListPools(ctx context.Context) ([]*core.PoolSummary, error) {
	pools, err := s.pools.All(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*core.PoolSummary, 0, len(pools))
	for _, pool := range pools {
		summaries = append(summaries, poolSummary(pool))
	}

	return summaries, nil
}

func (s *service) ListAssets(ctx context.Context) ([]string, error) {
	pools, err := s.pools.All(ctx)
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(pools))
	for _, pool := range pools {
		if pool.Active {
			assets = append(assets, pool.AssetID)
		}
	}

	return assets, nil
}

func (s *service) GetDeposit(ctx context.Context, userID, assetID string) (*core.Deposit, error) {
	deposit, err := s.deposits.Find(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	if deposit.ID == 0 {
		return nil, fmt.Errorf("%w: no deposit account for user %s asset %s", core.ErrInvalidInput, userID, assetID)
	}

	return deposit, nil
}

func (s *service) GetLoan(ctx context.Context, userID string, loanID int64) (*core.Loan, error) {
	loan, err := s.loans.Find(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	if loan.ID == 0 {
		return nil, fmt.Errorf("%w: unknown loan %d for user %s", core.ErrInvalidInput, loanID, userID)
	}

	return loan, nil
}

func (s *service) ListLoans(ctx context.Context, userID string) ([]*core.Loan, error) {
	return s.loans.FindByUser(ctx, userID)
}

// LoanInterest realized plus projected interest as of now. A read-time
// projection: the loan's settlement time is not advanced.
func (s *service) LoanInterest(ctx context.Context, userID string, loanID int64) (decimal.Decimal, error) {
	loan, err := s.GetLoan(ctx, userID, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	if !loan.Active {
		return loan.AccruedInterest, nil
	}

	pool, err := s.findActivePool(ctx, loan.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	return loan.AccruedInterest.Add(loanInterest(loan, pool, s.clock.Now())), nil
}

// CollateralRatio live ratio in bps; zero once the loan is closed and the
// debt is gone.
func (s *service) CollateralRatio(ctx context.Context, userID string, loanID int64) (decimal.Decimal, error) {
	loan, err := s.GetLoan(ctx, userID, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	if !loan.Active {
		return decimal.Zero, nil
	}

	pool, err := s.findActivePool(ctx, loan.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	return ratemodel.CollateralRatio(loan.CollateralAmount, liveDebt(loan, pool, s.clock.Now())), nil
}

func poolSummary(pool *core.Pool) *core.PoolSummary {
	return &core.PoolSummary{
		AssetID:            pool.AssetID,
		Symbol:             pool.Symbol,
		TotalDeposits:      pool.TotalDeposits,
		TotalBorrows:       pool.TotalBorrows,
		AvailableLiquidity: pool.AvailableLiquidity(),
		Utilization:        ratemodel.Utilization(pool.TotalDeposits, pool.TotalBorrows),
		BorrowRate:         borrowRate(pool),
		SupplyRate:         supplyRate(pool),
	}
}

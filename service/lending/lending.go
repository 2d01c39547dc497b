package lending

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lendpool/core"
	"lendpool/internal/ratemodel"
	"lendpool/pkg/id"
	"lendpool/pkg/number"

	"github.com/fox-one/msgpack"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

// txRunner the transaction boundary the engine commits through; *db.DB
// satisfies it.
type txRunner interface {
	Tx(fn func(tx *db.DB) error) error
}

type service struct {
	db        txRunner
	pools     core.IPoolStore
	deposits  core.IDepositStore
	loans     core.ILoanStore
	events    core.IEventStore
	transfers core.ITransferService
	clock     core.Clock

	locks sync.Map // asset id -> *sync.Mutex
}

// New new lending service. Operations touching the same pool are serialized
// behind a per-asset mutex: a liquidity check and the mutation it guards
// always commit atomically with respect to other users' operations.
func New(
	db *db.DB,
	pools core.IPoolStore,
	deposits core.IDepositStore,
	loans core.ILoanStore,
	events core.IEventStore,
	transfers core.ITransferService,
	clock core.Clock,
) core.ILendingService {
	if clock == nil {
		clock = core.ClockFunc(time.Now)
	}

	return &service{
		db:        db,
		pools:     pools,
		deposits:  deposits,
		loans:     loans,
		events:    events,
		transfers: transfers,
		clock:     clock,
	}
}

func (s *service) lockPool(assetID string) func() {
	v, _ := s.locks.LoadOrStore(assetID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// findActivePool loads the pool or fails with ErrPoolUnavailable.
func (s *service) findActivePool(ctx context.Context, assetID string) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if pool.ID == 0 || !pool.Active {
		return nil, fmt.Errorf("%w: no active pool for asset %s", core.ErrPoolUnavailable, assetID)
	}

	return pool, nil
}

// supplyRate live supply rate from current aggregates, bps.
func supplyRate(pool *core.Pool) decimal.Decimal {
	return ratemodel.SupplyRate(
		ratemodel.Utilization(pool.TotalDeposits, pool.TotalBorrows),
		pool.BaseRate,
		pool.Multiplier,
		pool.JumpMultiplier,
		pool.OptimalUtilization,
		pool.ReserveFactor,
	)
}

// borrowRate live borrow rate from current aggregates, bps.
func borrowRate(pool *core.Pool) decimal.Decimal {
	return ratemodel.BorrowRate(
		ratemodel.Utilization(pool.TotalDeposits, pool.TotalBorrows),
		pool.BaseRate,
		pool.Multiplier,
		pool.JumpMultiplier,
		pool.OptimalUtilization,
	)
}

// refreshRates recomputes the cached rate snapshot columns.
func refreshRates(pool *core.Pool) {
	pool.UtilizationRate = ratemodel.Utilization(pool.TotalDeposits, pool.TotalBorrows)
	pool.BorrowRate = borrowRate(pool)
	pool.SupplyRate = supplyRate(pool)
}

// settleDeposit folds elapsed supply interest into AccruedInterest and moves
// LastUpdateTime forward. Settlement happens before any balance mutation of
// the account; settling twice at the same instant adds nothing.
func settleDeposit(deposit *core.Deposit, pool *core.Pool, now time.Time) {
	if deposit.LastUpdateTime.IsZero() {
		deposit.LastUpdateTime = now
		return
	}

	elapsed := now.Unix() - deposit.LastUpdateTime.Unix()
	if elapsed <= 0 {
		return
	}

	interest := ratemodel.InterestAccrued(deposit.Principal, supplyRate(pool), elapsed)
	deposit.AccruedInterest = deposit.AccruedInterest.Add(interest)
	deposit.LastUpdateTime = now
}

// loanInterest read-time projection of interest accrued since the loan's
// last settlement. Never mutates the loan.
func loanInterest(loan *core.Loan, pool *core.Pool, now time.Time) decimal.Decimal {
	elapsed := now.Unix() - loan.LastUpdateTime.Unix()
	return ratemodel.InterestAccrued(loan.Principal, borrowRate(pool), elapsed)
}

// liveDebt principal plus all realized and projected interest.
func liveDebt(loan *core.Loan, pool *core.Pool, now time.Time) decimal.Decimal {
	return loan.Principal.Add(loan.AccruedInterest).Add(loanInterest(loan, pool, now))
}

// sharesForAmount share units minted for amount at the pool's current
// exchange rate; 1:1 when the pool is empty.
func sharesForAmount(pool *core.Pool, amount decimal.Decimal) decimal.Decimal {
	if !pool.TotalShares.IsPositive() || !pool.TotalDeposits.IsPositive() {
		return amount
	}

	return number.DivTrunc(amount.Mul(pool.TotalShares), pool.TotalDeposits)
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !number.IsIntegral(amount) {
		return fmt.Errorf("%w: amount %s must be a positive integer of the smallest unit", core.ErrInvalidInput, amount)
	}

	return nil
}

func (s *service) emitEvent(ctx context.Context, tx *db.DB, event *core.Event, detail interface{}) error {
	if event.TraceID == "" {
		event.TraceID = id.GenTraceID()
	}

	if detail != nil {
		payload, err := msgpack.Marshal(detail)
		if err != nil {
			return err
		}
		event.Payload = payload
	}

	if err := s.events.Create(ctx, tx, event); err != nil {
		return err
	}

	// log the event row itself, not the packed payload
	logged := *event
	logged.Payload = nil
	logger.FromContext(ctx).WithField("service", "lending").
		WithFields(logrus.Fields(structs.Map(&logged))).Infoln("operation committed")

	return nil
}

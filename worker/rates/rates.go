package rates

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"
	"lendpool/internal/ratemodel"
	"lendpool/pkg/id"
	"lendpool/worker"

	"github.com/fox-one/msgpack"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

const checkpointKey = "rates_checkpoint"

// Worker keeps the cached rate snapshot columns of every pool fresh so that
// reads do not have to recompute them from the rate model.
type Worker struct {
	worker.BaseJob
	db       *db.DB
	pools    core.IPoolStore
	events   core.IEventStore
	property property.Store
	clock    core.Clock
}

// New new rates worker
func New(location string, database *db.DB, pools core.IPoolStore, events core.IEventStore, propertyStore property.Store) *Worker {
	job := Worker{
		db:       database,
		pools:    pools,
		events:   events,
		property: propertyStore,
		clock:    core.ClockFunc(time.Now),
	}

	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.UTC
	}
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 1m"
	job.Cron.AddFunc(spec, job.Work)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "rates")

	pools, err := w.pools.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("pools.All")
		return err
	}

	now := w.clock.Now()
	for _, pool := range pools {
		if !pool.Active {
			continue
		}

		utilization := ratemodel.Utilization(pool.TotalDeposits, pool.TotalBorrows)
		borrowRate := ratemodel.BorrowRate(utilization, pool.BaseRate, pool.Multiplier, pool.JumpMultiplier, pool.OptimalUtilization)
		supplyRate := ratemodel.SupplyRate(utilization, pool.BaseRate, pool.Multiplier, pool.JumpMultiplier, pool.OptimalUtilization, pool.ReserveFactor)

		if pool.UtilizationRate.Equal(utilization) &&
			pool.BorrowRate.Equal(borrowRate) &&
			pool.SupplyRate.Equal(supplyRate) {
			continue
		}

		pool.UtilizationRate = utilization
		pool.BorrowRate = borrowRate
		pool.SupplyRate = supplyRate

		payload, err := msgpack.Marshal(map[string]interface{}{
			"utilization": utilization.String(),
			"borrow_rate": borrowRate.String(),
			"supply_rate": supplyRate.String(),
		})
		if err != nil {
			return err
		}

		err = w.db.Tx(func(tx *db.DB) error {
			if err := w.pools.Update(ctx, tx, pool); err != nil {
				return err
			}

			// derive the trace from the pool and tick so a retried run
			// cannot insert the same snapshot event twice
			trace := id.UUIDFromString(fmt.Sprintf("pool-rates-%s-%d", pool.AssetID, now.Unix()))
			return w.events.Create(ctx, tx, &core.Event{
				TraceID: trace,
				Op:      core.OpPoolRates,
				AssetID: pool.AssetID,
				Amount:  decimal.Zero,
				LoanID:  -1,
				Payload: payload,
			})
		})
		if err != nil {
			log.WithError(err).Errorln("refresh rates:", pool.AssetID)
			return err
		}
	}

	if err := w.property.Save(ctx, checkpointKey, now.Unix()); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
		return err
	}

	return nil
}

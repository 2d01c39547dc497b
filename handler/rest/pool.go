package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

var errNotFound = errors.New("not found")

func allPoolsHandler(lendingSrv core.ILendingService, poolStore core.IPoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summaries, err := lendingSrv.ListPools(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		poolViews := make([]*views.Pool, 0, len(summaries))
		for _, summary := range summaries {
			view, err := getPoolView(ctx, summary, poolStore)
			if err != nil {
				render.Error(w, err)
				return
			}
			poolViews = append(poolViews, view)
		}

		render.JSON(w, poolViews)
	}
}

func poolHandler(lendingSrv core.ILendingService, poolStore core.IPoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		asset := chi.URLParam(r, "asset")

		summary, err := lendingSrv.PoolSummary(ctx, asset)
		if err != nil {
			render.Error(w, err)
			return
		}

		view, err := getPoolView(ctx, summary, poolStore)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func createPoolHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID            string          `json:"asset_id"`
			Symbol             string          `json:"symbol"`
			BaseRate           decimal.Decimal `json:"base_rate"`
			Multiplier         decimal.Decimal `json:"multiplier"`
			JumpMultiplier     decimal.Decimal `json:"jump_multiplier"`
			OptimalUtilization decimal.Decimal `json:"optimal_utilization"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		pool, err := lendingSrv.CreatePool(
			r.Context(),
			params.AssetID,
			strings.ToUpper(params.Symbol),
			params.BaseRate,
			params.Multiplier,
			params.JumpMultiplier,
			params.OptimalUtilization,
		)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, pool)
	}
}

func assetsHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := lendingSrv.ListAssets(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, assets)
	}
}

func getPoolView(ctx context.Context, summary *core.PoolSummary, poolStore core.IPoolStore) (*views.Pool, error) {
	pool, err := poolStore.Find(ctx, summary.AssetID)
	if err != nil {
		return nil, err
	}

	return &views.Pool{
		PoolSummary:        *summary,
		ReserveFactor:      pool.ReserveFactor,
		BaseRate:           pool.BaseRate,
		Multiplier:         pool.Multiplier,
		JumpMultiplier:     pool.JumpMultiplier,
		OptimalUtilization: pool.OptimalUtilization,
		Active:             pool.Active,
	}, nil
}

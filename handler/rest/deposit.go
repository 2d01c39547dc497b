package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func depositHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserID  string          `json:"user_id"`
			AssetID string          `json:"asset_id"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		deposit, err := lendingSrv.Deposit(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Deposit{Deposit: *deposit})
	}
}

func withdrawHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserID  string          `json:"user_id"`
			AssetID string          `json:"asset_id"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		deposit, err := lendingSrv.Withdraw(r.Context(), params.UserID, params.AssetID, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Deposit{Deposit: *deposit})
	}
}

func userDepositHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deposit, err := lendingSrv.GetDeposit(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "asset"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Deposit{Deposit: *deposit})
	}
}

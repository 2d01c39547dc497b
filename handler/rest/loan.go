package rest

import (
	"context"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

func borrowHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserID            string          `json:"user_id"`
			AssetID           string          `json:"asset_id"`
			Amount            decimal.Decimal `json:"amount"`
			CollateralAssetID string          `json:"collateral_asset_id"`
			CollateralAmount  decimal.Decimal `json:"collateral_amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		loan, err := lendingSrv.Borrow(
			r.Context(),
			params.UserID,
			params.AssetID,
			params.Amount,
			params.CollateralAssetID,
			params.CollateralAmount,
		)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getLoanView(r.Context(), loan, lendingSrv))
	}
}

func repayHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")
		loanID := cast.ToInt64(chi.URLParam(r, "loan"))

		loan, err := lendingSrv.Repay(r.Context(), user, loanID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getLoanView(r.Context(), loan, lendingSrv))
	}
}

func liquidateHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			LiquidatorID string `json:"liquidator_id"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		user := chi.URLParam(r, "user")
		loanID := cast.ToInt64(chi.URLParam(r, "loan"))

		loan, err := lendingSrv.Liquidate(r.Context(), params.LiquidatorID, user, loanID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getLoanView(r.Context(), loan, lendingSrv))
	}
}

func userLoansHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		loans, err := lendingSrv.ListLoans(ctx, chi.URLParam(r, "user"))
		if err != nil {
			render.Error(w, err)
			return
		}

		loanViews := make([]*views.Loan, 0, len(loans))
		for _, loan := range loans {
			view := getLoanView(ctx, loan, lendingSrv)
			loanViews = append(loanViews, view)
		}

		render.JSON(w, loanViews)
	}
}

func userLoanHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := chi.URLParam(r, "user")
		loanID := cast.ToInt64(chi.URLParam(r, "loan"))

		loan, err := lendingSrv.GetLoan(ctx, user, loanID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, getLoanView(ctx, loan, lendingSrv))
	}
}

func loanInterestHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")
		loanID := cast.ToInt64(chi.URLParam(r, "loan"))

		interest, err := lendingSrv.LoanInterest(r.Context(), user, loanID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"interest": interest})
	}
}

func loanRatioHandler(lendingSrv core.ILendingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")
		loanID := cast.ToInt64(chi.URLParam(r, "loan"))

		ratio, err := lendingSrv.CollateralRatio(r.Context(), user, loanID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"collateral_ratio": ratio})
	}
}

func getLoanView(ctx context.Context, loan *core.Loan, lendingSrv core.ILendingService) *views.Loan {
	view := &views.Loan{Loan: *loan}

	if interest, err := lendingSrv.LoanInterest(ctx, loan.UserID, loan.LoanID); err == nil {
		view.LiveInterest = interest
	}
	if ratio, err := lendingSrv.CollateralRatio(ctx, loan.UserID, loan.LoanID); err == nil {
		view.CollateralRatio = ratio
	}

	return view
}

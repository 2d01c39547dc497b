package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"

	"github.com/go-chi/chi"
)

// Handle the restful api surface over the lending engine.
func Handle(lendingSrv core.ILendingService, poolStore core.IPoolStore) http.Handler {
	r := chi.NewRouter()

	r.Route("/pools", func(r chi.Router) {
		r.Get("/", allPoolsHandler(lendingSrv, poolStore))
		r.Post("/", createPoolHandler(lendingSrv))
		r.Get("/{asset}", poolHandler(lendingSrv, poolStore))
	})

	r.Get("/assets", assetsHandler(lendingSrv))

	r.Post("/deposits", depositHandler(lendingSrv))
	r.Post("/withdrawals", withdrawHandler(lendingSrv))

	r.Route("/loans", func(r chi.Router) {
		r.Post("/", borrowHandler(lendingSrv))
		r.Post("/{user}/{loan}/repay", repayHandler(lendingSrv))
		r.Post("/{user}/{loan}/liquidate", liquidateHandler(lendingSrv))
	})

	r.Route("/users/{user}", func(r chi.Router) {
		r.Get("/deposits/{asset}", userDepositHandler(lendingSrv))
		r.Get("/loans", userLoansHandler(lendingSrv))
		r.Get("/loans/{loan}", userLoanHandler(lendingSrv))
		r.Get("/loans/{loan}/interest", loanInterestHandler(lendingSrv))
		r.Get("/loans/{loan}/ratio", loanRatioHandler(lendingSrv))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.BadRequest(w, errNotFound)
	})

	return r
}

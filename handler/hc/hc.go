package hc

import (
	"net/http"
	"time"

	"lendpool/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request
func Handle(ver string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver))
	return r
}

func handle(version string) http.HandlerFunc {
	launchedAt := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, render.H{
			"uptime":  time.Since(launchedAt).Truncate(time.Millisecond).String(),
			"version": version,
		})
	}
}

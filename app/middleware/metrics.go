package middleware

import (
	"net/http"
	"strconv"
	"time"

	"newsboard/app/metrics"

	"github.com/gorilla/mux"
)

// Metrics counts requests and their latency per route template.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &wideResponseWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			m.ObserveRequest(r.Method, route, strconv.Itoa(ww.statusCode()), time.Since(start).Seconds())
		})
	}
}

// Package timesrv serves the current Unix time as plain text, in the format
// the device's time source expects. It lets a bench setup run without
// reaching the internet.
package timesrv

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SecondsPath is the route the device fetches.
const SecondsPath = "/api/v2/time/seconds"

// Clock returns the time to serve.
type Clock func() time.Time

// Fixed returns a Clock frozen at the given Unix second, for reproducible
// label runs.
func Fixed(sec int64) Clock {
	t := time.Unix(sec, 0)
	return func() time.Time { return t }
}

// NewRouter creates the time server routes.
func NewRouter(now Clock) http.Handler {
	if now == nil {
		now = time.Now
	}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get(SecondsPath, func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, strconv.FormatInt(now().Unix(), 10))
	})
	r.Get("/api/v2/time/millis", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, strconv.FormatInt(now().UnixMilli(), 10))
	})
	r.Get("/api/v2/time/ISO-8601", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, now().UTC().Format(time.RFC3339))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, "ok")
	})
	return r
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

package main

import (
	"expvar"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/tomasen/realip"
	"golang.org/x/time/rate"
)

// Published once per process; routes() may be built more than once in tests.
var (
	totalRequestsReceived           = expvar.NewInt("total_requests_received")
	totalResponsesSent              = expvar.NewInt("total_responses_sent")
	totalProcessingTimeMicroseconds = expvar.NewInt("total_processing_time_microseconds")
	totalResponsesSentByStatus      = expvar.NewMap("total_responses_sent_by_status")
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				// Makes net/http close the connection once the response is sent.
				w.Header().Set("Connection", "close")
				app.panicResponse(w, r, rec)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	// Rate limiting is opt-in. When it's off there is no per-client state at
	// all and the router is returned untouched.
	if !app.config.limiter.enabled {
		return next
	}

	// Each client gets its own token bucket plus the time we last saw it, so
	// idle clients can be forgotten.
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// Once a minute, drop every client that hasn't sent a request in the last
	// three minutes. The mutex stops limiter checks from running while the
	// map is being pruned.
	go func() {
		for {
			time.Sleep(time.Minute)

			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// realip looks at X-Forwarded-For and X-Real-Ip before RemoteAddr, so
		// clients behind the hosting provider's proxy aren't all one bucket.
		ip := realip.FromRequest(r)

		mu.Lock()

		// First request from this IP: give it a fresh limiter using the
		// configured requests-per-second and burst.
		if _, found := clients[ip]; !found {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(app.config.limiter.rps), app.config.limiter.burst),
			}
		}
		clients[ip].lastSeen = time.Now()

		// Allow() takes a token if one is available. If not, unlock and send
		// a 429 in the usual error envelope.
		if !clients[ip].limiter.Allow() {
			mu.Unlock()
			app.rateLimitExceededResponse(w, r)
			return
		}

		// Unlock before calling the next handler, not with defer: otherwise
		// the mutex would stay held until every downstream handler returned.
		mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (app *application) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		origin := r.Header.Get("Origin")

		if origin != "" && app.trustedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)

			// Preflight.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET, POST, PUT, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

				w.WriteHeader(http.StatusOK)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) trustedOrigin(origin string) bool {
	for _, trusted := range app.config.cors.trustedOrigins {
		if trusted == "*" || trusted == origin {
			return true
		}
	}
	return false
}

func (app *application) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totalRequestsReceived.Add(1)

		// CaptureMetrics runs the rest of the chain and hands back the status
		// code that was written and how long the whole thing took.
		metrics := httpsnoop.CaptureMetrics(next, w, r)

		totalResponsesSent.Add(1)
		totalProcessingTimeMicroseconds.Add(metrics.Duration.Microseconds())

		// expvar maps are keyed by string, hence Itoa on the status code.
		totalResponsesSentByStatus.Add(strconv.Itoa(metrics.Code), 1)
	})
}

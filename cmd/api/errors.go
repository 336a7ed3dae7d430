package main

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/myk4040okothogodo/movieitems/internal/apierr"
)

func (app *application) logError(r *http.Request, err error) {
	log.WithError(err).WithFields(log.Fields{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	}).Error("request failed")
}

// errorResponse is the one place errors are turned into responses. Anything
// that isn't an *apierr.Error is reported as an INTERNAL_ERROR, and every
// 5xx is logged.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	e := apierr.From(err)
	if e.Status >= http.StatusInternalServerError {
		app.logError(r, err)
	}

	env := envelope{"ok": false, "error": e}
	if werr := app.writeJSON(w, e.Status, env, nil); werr != nil {
		app.logError(r, werr)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, apierr.New(http.StatusNotFound, "Route not found", apierr.CodeNotFound,
		apierr.Details{"path": r.URL.Path, "method": r.Method}))
}

// itemNotFound is returned by handlers when the store has no row for the id.
func itemNotFound(r *http.Request) error {
	return apierr.New(http.StatusNotFound, "Item not found", apierr.CodeNotFound,
		apierr.Details{"path": r.URL.Path, "method": r.Method})
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, apierr.New(http.StatusTooManyRequests, "Rate limit exceeded", apierr.CodeRateLimited, nil))
}

func (app *application) panicResponse(w http.ResponseWriter, r *http.Request, rec interface{}) {
	app.errorResponse(w, r, fmt.Errorf("panic: %v", rec))
}

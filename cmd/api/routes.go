package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// An unknown method on a known path is an unmatched route like any other.
	router.HandleMethodNotAllowed = false
	// No redirects either: "/items/" or "/ITEMS" would otherwise get a bare
	// 301/307 instead of the JSON error envelope.
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	listItems := app.pipeline(
		app.listItemsHandler,
	)
	showItem := app.pipeline(
		app.validateID,
		app.showItemHandler,
	)

	// HEAD runs the same pipeline as GET; net/http drops the body.
	router.HandlerFunc(http.MethodGet, "/items", listItems)
	router.HandlerFunc(http.MethodHead, "/items", listItems)
	router.HandlerFunc(http.MethodGet, "/items/:id", showItem)
	router.HandlerFunc(http.MethodHead, "/items/:id", showItem)
	router.HandlerFunc(http.MethodPost, "/items", app.pipeline(
		app.decodeBody,
		app.requireBody,
		app.validateItemBody,
		app.validateAllowedFields,
		app.createItemHandler,
	))
	router.HandlerFunc(http.MethodPut, "/items/:id", app.pipeline(
		app.decodeBody,
		app.requireBody,
		app.validateID,
		app.validateAllowedFields,
		app.validateItemBody,
		app.updateItemHandler,
	))
	router.HandlerFunc(http.MethodDelete, "/items/:id", app.pipeline(
		app.validateID,
		app.deleteItemHandler,
	))

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.metrics(app.recoverPanic(app.enableCORS(app.rateLimit(router))))
}

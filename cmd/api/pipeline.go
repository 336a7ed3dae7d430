package main

import (
	"net/http"

	"github.com/myk4040okothogodo/movieitems/internal/data"
)

// itemRequest is the per-request state shared by the steps of a pipeline.
type itemRequest struct {
	id   string
	body *data.Body
}

// step is one stage of a route: a validator or the final handler. A non-nil
// error stops the pipeline and is written as the error envelope.
type step func(w http.ResponseWriter, r *http.Request, req *itemRequest) error

// pipeline runs steps in order until one fails. The last step is expected to
// write the success response.
func (app *application) pipeline(steps ...step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &itemRequest{id: app.readIDParam(r)}

		for _, s := range steps {
			if err := s(w, r, req); err != nil {
				app.errorResponse(w, r, err)
				return
			}
		}
	}
}

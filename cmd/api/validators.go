package main

import (
	"net/http"

	"github.com/myk4040okothogodo/movieitems/internal/data"
)

// decodeBody must run before any step that looks at the body.
func (app *application) decodeBody(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	body, err := app.readJSON(w, r)
	if err != nil {
		return err
	}
	req.body = body
	return nil
}

func (app *application) requireBody(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	return data.RequireBody(req.body)
}

func (app *application) validateID(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	return data.ValidateID(req.id)
}

func (app *application) validateItemBody(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	return data.ValidateItemBody(req.body)
}

func (app *application) validateAllowedFields(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	return data.ValidateAllowedFields(req.body)
}

package main

import (
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/myk4040okothogodo/movieitems/internal/apierr"
	"github.com/myk4040okothogodo/movieitems/internal/data"
)

func (app *application) listItemsHandler(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	items, err := app.models.Items.GetAll(r.Context())
	if err != nil {
		return apierr.Upstream("Failed to read data", apierr.CodeReadError, err)
	}

	log.WithField("records", len(items)).Info("GET /items")

	// An empty table is still a successful read.
	if len(items) == 0 {
		return app.success(w, http.StatusNotFound, 0, "No items found", items)
	}
	return app.success(w, http.StatusOK, len(items), "", items)
}

func (app *application) showItemHandler(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	log.WithField("id", req.id).Info("GET /items/:id")

	item, err := app.models.Items.Get(r.Context(), req.id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return itemNotFound(r)
		}
		return apierr.Upstream("Failed to read data", apierr.CodeReadError, err)
	}
	return app.success(w, http.StatusOK, 1, "", item)
}

func (app *application) createItemHandler(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	input, err := data.NewItemInput(req.body)
	if err != nil {
		return err
	}

	item, err := app.models.Items.Insert(r.Context(), input)
	if err != nil {
		return apierr.Upstream("Failed to add item", apierr.CodeInsertError, err)
	}

	log.WithField("id", item.ID).Info("POST /items")

	headers := make(http.Header)
	headers.Set("Location", "/items/"+item.ID)

	return app.writeJSON(w, http.StatusCreated, envelope{
		"ok":      true,
		"records": 1,
		"message": "Item added successfully",
		"data":    item,
	}, headers)
}

func (app *application) updateItemHandler(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	input, err := data.NewItemInput(req.body)
	if err != nil {
		return err
	}

	log.WithField("id", req.id).Info("PUT /items/:id")

	item, err := app.models.Items.Update(r.Context(), req.id, input)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return itemNotFound(r)
		}
		return apierr.Upstream("Failed to update item", apierr.CodeUpdateError, err)
	}
	return app.success(w, http.StatusOK, 1, "Item updated successfully", item)
}

func (app *application) deleteItemHandler(w http.ResponseWriter, r *http.Request, req *itemRequest) error {
	log.WithField("id", req.id).Info("DELETE /items/:id")

	item, err := app.models.Items.Delete(r.Context(), req.id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return itemNotFound(r)
		}
		return apierr.Upstream("Error deleting item", apierr.CodeDeleteError, err)
	}
	return app.success(w, http.StatusOK, 1, "Item deleted successfully", item)
}

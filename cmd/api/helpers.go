package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/myk4040okothogodo/movieitems/internal/apierr"
	"github.com/myk4040okothogodo/movieitems/internal/data"
)

// maxBodyBytes caps the size of a request body.
const maxBodyBytes = 1_048_576

type envelope map[string]interface{}

// readIDParam returns the raw :id URL parameter. Format checks are left to
// data.ValidateID.
func (app *application) readIDParam(r *http.Request) string {
	params := httprouter.ParamsFromContext(r.Context())
	return params.ByName("id")
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// success writes the success envelope. message is omitted when empty.
func (app *application) success(w http.ResponseWriter, status int, records int, message string, payload interface{}) error {
	env := envelope{"ok": true, "records": records, "data": payload}
	if message != "" {
		env["message"] = message
	}
	return app.writeJSON(w, status, env, nil)
}

// readJSON reads the request body and decodes it as a JSON object. Any
// syntax problem comes back as an INVALID_JSON error; an empty body gives an
// empty data.Body so that requireBody can report it.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request) (*data.Body, error) {
	// Only application/json bodies are parsed. Anything else, including a
	// request with no Content-Type at all, is treated as an empty body.
	if !isJSONContent(r) {
		return data.ParseBody(nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	err := dec.Decode(&raw)
	if err != nil {
		var syntaxError *json.SyntaxError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			return data.ParseBody(nil)

		case errors.As(err, &syntaxError):
			return nil, invalidJSON(fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxError.Offset))

		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, invalidJSON("body contains badly-formed JSON")

		case errors.As(err, &maxBytesError):
			return nil, apierr.New(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("body must not be larger than %d bytes", maxBytesError.Limit), apierr.CodePayloadTooLarge, nil)

		default:
			return nil, errors.Wrap(err, "failed to read request body")
		}
	}

	// A second value, or anything but whitespace, after the first one.
	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, invalidJSON("body must only contain a single JSON value")
	}

	body, err := data.ParseBody(raw)
	if err != nil {
		if errors.Is(err, data.ErrBodyNotObject) {
			return nil, invalidJSON(err.Error())
		}
		return nil, invalidJSON(strings.TrimPrefix(err.Error(), "json: "))
	}
	return body, nil
}

func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func invalidJSON(reason string) error {
	return apierr.New(http.StatusBadRequest, "Invalid JSON body", apierr.CodeInvalidJSON,
		apierr.Details{"reason": reason})
}

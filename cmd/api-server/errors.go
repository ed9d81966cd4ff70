package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/protomem/charge-scheduler/internal/ctxstore"
	"github.com/protomem/charge-scheduler/internal/response"
	"github.com/protomem/charge-scheduler/internal/validator"
)

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	return app.serverLogger(_traceIDKey.String(), ctxstore.FromOr(r.Context(), _traceIDKey, ""))
}

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		trace   = string(debug.Stack())
	)

	requestAttrs := slog.Group("request", "method", method, "url", url)
	app.requestLogger(r).Error(message, requestAttrs, "trace", trace)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	err := response.JSONWithHeaders(w, status, response.JSONObject{"success": false, "message": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := "The " + r.Method + " method is not supported for this resource"
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, response.JSONObject{
		"success":     false,
		"message":     v.First(),
		"errors":      v.Errors,
		"fieldErrors": v.FieldErrors,
	})
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) authenticationRequired(w http.ResponseWriter, r *http.Request) {
	app.errorMessage(w, r, http.StatusUnauthorized, "You must be logged in to access this resource", nil)
}

func (app *application) sessionLoading(w http.ResponseWriter, r *http.Request) {
	headers := http.Header{"Retry-After": []string{"1"}}
	app.errorMessage(w, r, http.StatusServiceUnavailable, "Session is still loading", headers)
}

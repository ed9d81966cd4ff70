package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/protomem/charge-scheduler/internal/model"
	"github.com/protomem/charge-scheduler/internal/request"
	"github.com/protomem/charge-scheduler/internal/response"
	"github.com/protomem/charge-scheduler/internal/service"
	"github.com/protomem/charge-scheduler/internal/validator"
	"github.com/protomem/charge-scheduler/internal/version"
)

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{
		"status":  "OK",
		"version": version.Get(),
		"session": app.session.State().String(),
	}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input requestCredentials
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestCredentials(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	res := app.service.Register(r.Context(), input.Username, input.Password)
	if !res.Success {
		if errors.Is(res.Err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusConflict, res.Message, nil)
			return
		}

		app.serverError(w, r, res.Err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, res); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input requestCredentials
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestCredentials(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	res, ok := app.session.Login(r.Context(), input.Username, input.Password)
	if !ok {
		if errors.Is(res.Err, model.ErrNotFound) || errors.Is(res.Err, model.ErrInvalidPassword) {
			app.errorMessage(w, r, http.StatusUnauthorized, res.Message, nil)
			return
		}

		app.serverError(w, r, res.Err)
		return
	}

	if err := response.JSON(w, http.StatusOK, res); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, userID := app.session.Current()

	body := response.JSONObject{"state": state.String()}
	if userID != 0 {
		body["userId"] = userID
	}

	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := app.session.Logout(r.Context()); err != nil {
		app.requestLogger(r).Warn("session key not removed", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) handleScheduleDefaults(w http.ResponseWriter, r *http.Request) {
	types := make([]response.JSONObject, 0, len(model.ScheduleTypes()))
	for _, t := range model.ScheduleTypes() {
		types = append(types, response.JSONObject{"type": t, "label": t.Label()})
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{
		"types":                types,
		"desired_charge_level": model.DefaultChargeLevel,
		"desired_mileage":      model.DefaultMileage,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := app.service.GetSchedules(r.Context(), currentUserID(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"schedules": schedules}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var input model.ScheduleInput
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	res := app.service.CreateSchedule(r.Context(), currentUserID(r), input)
	if !res.Success {
		app.scheduleFailure(w, r, res.Result)
		return
	}

	headers := http.Header{"Location": []string{fmt.Sprintf("/api/v1/schedules/%d", res.ScheduleID)}}
	if err := response.JSONWithHeaders(w, http.StatusCreated, res, headers); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := scheduleIDFromRequest(r)
	if err != nil {
		app.notFound(w, r)
		return
	}

	schedule, err := app.service.GetScheduleByID(r.Context(), scheduleID, currentUserID(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if schedule == nil {
		app.errorMessage(w, r, http.StatusNotFound, "Schedule not found", nil)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"schedule": schedule}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := scheduleIDFromRequest(r)
	if err != nil {
		app.notFound(w, r)
		return
	}

	var input model.ScheduleInput
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	res := app.service.UpdateSchedule(r.Context(), scheduleID, currentUserID(r), input)
	if !res.Success {
		app.scheduleFailure(w, r, res)
		return
	}

	if err := response.JSON(w, http.StatusOK, res); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := scheduleIDFromRequest(r)
	if err != nil {
		app.notFound(w, r)
		return
	}

	res := app.service.DeleteSchedule(r.Context(), scheduleID, currentUserID(r))
	if !res.Success {
		app.scheduleFailure(w, r, res)
		return
	}

	if err := response.JSON(w, http.StatusOK, res); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) scheduleFailure(w http.ResponseWriter, r *http.Request, res service.Result) {
	var verr *service.ValidationError

	switch {
	case errors.As(res.Err, &verr):
		app.failedValidation(w, r, verr.Validator)
	case errors.Is(res.Err, model.ErrNotFound):
		app.errorMessage(w, r, http.StatusNotFound, res.Message, nil)
	default:
		app.serverError(w, r, res.Err)
	}
}

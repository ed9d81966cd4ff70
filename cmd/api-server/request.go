package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/charge-scheduler/internal/model"
)

func scheduleIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "scheduleId"), 10, 64)
	return model.ID(id), err
}

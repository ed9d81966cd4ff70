package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", app.handleStatus)

		r.Post("/users", app.handleRegister)

		r.Post("/session", app.handleLogin)
		r.Get("/session", app.handleGetSession)
		r.Delete("/session", app.handleLogout)

		r.Get("/schedules/defaults", app.handleScheduleDefaults)

		r.Group(func(r chi.Router) {
			r.Use(app.requireSession)

			r.Get("/schedules", app.handleListSchedules)
			r.Post("/schedules", app.handleCreateSchedule)
			r.Get("/schedules/{scheduleId}", app.handleGetSchedule)
			r.Put("/schedules/{scheduleId}", app.handleUpdateSchedule)
			r.Delete("/schedules/{scheduleId}", app.handleDeleteSchedule)
		})
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux))

	return mux
}

func chiRoutesToStrings(routes chi.Routes) []string {
	parsedRoutes := make([]string, 0)
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		parsedRoutes = append(parsedRoutes, method+" "+route)
		return nil
	})
	return parsedRoutes
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/routes/middlewares"
)

const maxBodyBytes = 1 << 20

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middlewares.Logger, middleware.Recoverer, app.Metrics.InFlight)

	root.Get("/", Health())
	root.Method(http.MethodGet, "/metrics", app.Metrics.Handler())
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()
	api.Use(render.SetContentType(render.ContentTypeJSON))

	api.With(middlewares.ETag).
		Get("/form-schema", GetFormSchema(app))

	api.With(middleware.RequestSize(maxBodyBytes)).
		Post("/submissions", SubmitForm(app))
	api.Get("/submissions", ListSubmissions(app))

	return api
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"ok": true})
	}
}

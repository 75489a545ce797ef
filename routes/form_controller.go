package routes

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-form/app"
)

func GetFormSchema(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, app.Schema)
	}
}

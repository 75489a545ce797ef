package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/validation"
)

// Failure is the body of every unsuccessful API response.
type Failure struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// Will log an error, and send an HTTP response with status 500 and the given
// message. The error itself never reaches the client.
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error, msg string) {
	log.WithFields(log.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"code":       code,
	}).Errorf("%s: %v", code, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, Failure{Error: msg})
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	render.Status(r, status)
	render.JSON(w, r, Failure{Error: errMsg})
}

// Will log the failing fields at debug level, and send an HTTP response with
// status 400 and the whole error map
func LogValidationErrors(w http.ResponseWriter, r *http.Request, code string, errs validation.Errors) {
	log.Debugf("%s: %d invalid field(s)", code, len(errs))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Failure{Errors: errs})
}

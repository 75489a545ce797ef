package routes

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/database"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/metrics"
	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

var (
	errInvalidPagination = errors.New("Invalid pagination parameters")
	errInvalidSort       = errors.New("Invalid sort parameters")
)

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{}
		err := render.DecodeJSON(r.Body, &data)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "Invalid request body")
			return
		}

		// never trust the client: it validates with the same rules, but may not have
		errs := validation.Validate(data, app.Schema)
		if !errs.OK() {
			app.Metrics.Submissions.WithLabelValues(metrics.Rejected).Inc()
			for id := range errs {
				app.Metrics.FieldErrors.WithLabelValues(id).Inc()
			}
			httpx.LogValidationErrors(w, r, "submission.validate", errs)
			return
		}

		start := time.Now()
		submission, err := app.Insert(r.Context(), data)
		app.Metrics.StoreLatency.WithLabelValues("insert").Observe(time.Since(start).Seconds())
		if err != nil {
			app.Metrics.Submissions.WithLabelValues(metrics.Failed).Inc()
			httpx.LogInternalError(w, r, "db.insert_submission", err, "Failed to create submission")
			return
		}
		app.Metrics.Submissions.WithLabelValues(metrics.Accepted).Inc()

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success":   true,
			"id":        submission.ID,
			"createdAt": submission.CreatedAt,
		})
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r.URL.Query(), app.Schema, app.MaxPageSize)
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "request.list_query", "%s", err.Error())
			return
		}

		start := time.Now()
		submissions, total, err := app.List(r.Context(), q)
		app.Metrics.StoreLatency.WithLabelValues("list").Observe(time.Since(start).Seconds())
		switch {
		case errors.Is(err, database.ErrInvalidSort):
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "db.get_submissions.sort", "%s", errInvalidSort.Error())
			return
		case err != nil:
			httpx.LogInternalError(w, r, "db.get_submissions", err, "Failed to fetch submissions")
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"data":    submissions,
			"pagination": map[string]any{
				"currentPage":      q.Page,
				"totalPages":       totalPages(total, q.Limit),
				"totalSubmissions": total,
				"limit":            q.Limit,
			},
		})
	}
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}

// parseListQuery applies defaults and rejects out of range pagination and
// unknown sort keys. A schema field id sorts on the submitted value.
func parseListQuery(values url.Values, schema *model.FormSchema, maxLimit int) (model.ListQuery, error) {
	q := model.ListQuery{
		SortBy:    model.SortByCreatedAt,
		SortOrder: model.Desc,
	}

	var ok bool
	q.Page, ok = intParam(values, "page", defaultPage)
	if !ok || q.Page < 1 || q.Page > math.MaxInt32 {
		return q, errInvalidPagination
	}
	q.Limit, ok = intParam(values, "limit", defaultLimit)
	if !ok || q.Limit < 1 || q.Limit > maxLimit {
		return q, errInvalidPagination
	}

	if sortBy := values.Get("sortBy"); sortBy != "" {
		switch {
		case sortBy == model.SortByCreatedAt, sortBy == model.SortByID:
			q.SortBy = sortBy
		default:
			id := strings.TrimPrefix(sortBy, model.SortByDataPrefix)
			if _, known := schema.Field(id); !known {
				return q, errInvalidSort
			}
			q.SortBy = model.SortByDataPrefix + id
		}
	}

	if sortOrder := values.Get("sortOrder"); sortOrder != "" {
		switch model.SortOrder(strings.ToLower(sortOrder)) {
		case model.Asc:
			q.SortOrder = model.Asc
		case model.Desc:
			q.SortOrder = model.Desc
		default:
			return q, errInvalidSort
		}
	}

	return q, nil
}

func intParam(values url.Values, key string, fallback int) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

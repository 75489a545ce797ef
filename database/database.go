package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbolis/quick-form/model"
)

// Store persists accepted submissions. It enforces no schema: callers must
// validate data before inserting it.
type Store interface {
	// Insert assigns an id and a creation time and persists data.
	Insert(ctx context.Context, data map[string]any) (model.Submission, error)
	// List returns one page of submissions and the total count.
	List(ctx context.Context, q model.ListQuery) ([]model.Submission, int, error)
	Close() error
}

// Open picks the backend from the URL: mongodb:// and mongodb+srv:// URLs
// open MongoDB, anything else is a SQLite file path.
func Open(ctx context.Context, url string) (Store, error) {
	if isMongoURL(url) {
		store, err := openMongo(ctx, url)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := openSQLite(ctx, url)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func isMongoURL(url string) bool {
	return strings.HasPrefix(url, "mongodb://") || strings.HasPrefix(url, "mongodb+srv://")
}

// sortDirection maps a sort order to 1 (ascending) or -1 (descending).
func sortDirection(order model.SortOrder) int {
	if order == model.Asc {
		return 1
	}
	return -1
}

// sortField splits q.SortBy into a column kind and, for data sorts, the
// field id.
func sortField(q model.ListQuery) (kind string, field string, err error) {
	switch {
	case q.SortBy == "" || q.SortBy == model.SortByCreatedAt:
		return model.SortByCreatedAt, "", nil
	case q.SortBy == model.SortByID:
		return model.SortByID, "", nil
	case strings.HasPrefix(q.SortBy, model.SortByDataPrefix):
		field = strings.TrimPrefix(q.SortBy, model.SortByDataPrefix)
		if field == "" || strings.ContainsAny(field, `"$.`) {
			break
		}
		return model.SortByDataPrefix, field, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidSort, q.SortBy)
}

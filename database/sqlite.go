package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mbolis/quick-form/model"
)

// createdAtLayout is fixed width so that text order is time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type sqliteStore struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, path string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, storageError("db.open", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, storageError("db.ping", err)
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateSQLite(db)
	if err != nil {
		db.Close()
		return nil, storageError("db.migrate", err)
	}

	return &sqliteStore{db}, nil
}

// sqliteDSN serializes writers through the busy timeout and lets readers run
// alongside them in WAL mode.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_journal_mode=WAL"
}

func (s *sqliteStore) Insert(ctx context.Context, data map[string]any) (model.Submission, error) {
	if data == nil {
		data = map[string]any{}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Submission{}, storageError("db.insert_submission.id", err)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return model.Submission{}, storageError("db.insert_submission.encode", err)
	}

	createdAt := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submission (id, data, created_at)
		VALUES (?, ?, ?)`,
		id.String(),
		string(raw),
		createdAt.Format(createdAtLayout),
	)
	if err != nil {
		return model.Submission{}, storageError("db.insert_submission", err)
	}

	return model.Submission{
		ID:        id.String(),
		CreatedAt: createdAt,
		Data:      data,
	}, nil
}

func (s *sqliteStore) List(ctx context.Context, q model.ListQuery) ([]model.Submission, int, error) {
	orderBy, args, err := sqliteOrderBy(q)
	if err != nil {
		return nil, 0, err
	}

	// count and page come from the same read snapshot
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, storageError("db.begin_tx", err)
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM submission`).Scan(&total)
	if err != nil {
		return nil, 0, storageError("db.count_submissions", err)
	}

	args = append(args, q.Limit, q.Skip())
	rows, err := tx.QueryContext(ctx, `
		SELECT id, data, created_at
		FROM submission
		ORDER BY `+orderBy+`
		LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, 0, storageError("db.get_submissions", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		var raw, createdAt string
		err = rows.Scan(&sub.ID, &raw, &createdAt)
		if err != nil {
			return nil, 0, storageError("db.get_submissions.scan", err)
		}

		err = json.Unmarshal([]byte(raw), &sub.Data)
		if err != nil {
			return nil, 0, storageError("db.get_submissions.parse_data", err)
		}
		sub.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return nil, 0, storageError("db.get_submissions.parse_time", err)
		}

		submissions = append(submissions, sub)
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, storageError("db.get_submissions.rows", err)
	}

	return submissions, total, nil
}

func sqliteOrderBy(q model.ListQuery) (string, []any, error) {
	kind, field, err := sortField(q)
	if err != nil {
		return "", nil, err
	}

	dir := "DESC"
	if sortDirection(q.SortOrder) > 0 {
		dir = "ASC"
	}

	switch kind {
	case model.SortByID:
		return "id " + dir + ", seq " + dir, nil, nil
	case model.SortByDataPrefix:
		return "json_extract(data, ?) " + dir + ", seq " + dir, []any{`$."` + field + `"`}, nil
	default:
		return "created_at " + dir + ", seq " + dir, nil, nil
	}
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

package database

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mbolis/quick-form/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultMongoDatabase   = "quickform"
	submissionsCollection  = "submissions"
	mongoConnectTimeout    = 10 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
)

type mongoStore struct {
	client      *mongo.Client
	submissions *mongo.Collection
}

type submissionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Data      map[string]any     `bson:"data"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func openMongo(ctx context.Context, uri string) (*mongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storageError("db.open", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		disconnect(client)
		return nil, storageError("db.ping", err)
	}

	s := &mongoStore{
		client:      client,
		submissions: client.Database(mongoDatabase(uri)).Collection(submissionsCollection),
	}

	_, err = s.submissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		disconnect(client)
		return nil, storageError("db.create_index", err)
	}

	return s, nil
}

// mongoDatabase takes the database name from the URI path.
func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

func disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

func (s *mongoStore) Insert(ctx context.Context, data map[string]any) (model.Submission, error) {
	if data == nil {
		data = map[string]any{}
	}

	doc := submissionDoc{
		Data:      data,
		CreatedAt: millisCeil(time.Now()),
	}
	res, err := s.submissions.InsertOne(ctx, doc)
	if err != nil {
		return model.Submission{}, storageError("db.insert_submission", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.Submission{}, storageError("db.insert_submission.id", errUnexpectedID)
	}

	return model.Submission{
		ID:        id.Hex(),
		CreatedAt: doc.CreatedAt,
		Data:      data,
	}, nil
}

// millisCeil rounds t up to BSON date precision so a stored createdAt is
// never earlier than the moment of insertion.
func millisCeil(t time.Time) time.Time {
	t = t.UTC()
	truncated := t.Truncate(time.Millisecond)
	if truncated.Before(t) {
		truncated = truncated.Add(time.Millisecond)
	}
	return truncated
}

func (s *mongoStore) List(ctx context.Context, q model.ListQuery) ([]model.Submission, int, error) {
	sort, err := mongoSort(q)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.submissions.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, storageError("db.count_submissions", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	cur, err := s.submissions.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, storageError("db.get_submissions", err)
	}
	defer cur.Close(ctx)

	submissions := []model.Submission{}
	for cur.Next(ctx) {
		var doc submissionDoc
		err = cur.Decode(&doc)
		if err != nil {
			return nil, 0, storageError("db.get_submissions.decode", err)
		}

		data, _ := normalizeBSON(doc.Data).(map[string]any)
		submissions = append(submissions, model.Submission{
			ID:        doc.ID.Hex(),
			CreatedAt: doc.CreatedAt.UTC(),
			Data:      data,
		})
	}
	err = cur.Err()
	if err != nil {
		return nil, 0, storageError("db.get_submissions.cursor", err)
	}

	return submissions, int(total), nil
}

// mongoSort uses _id as the tie breaker; ObjectIDs grow with insertion time.
func mongoSort(q model.ListQuery) (bson.D, error) {
	kind, field, err := sortField(q)
	if err != nil {
		return nil, err
	}
	dir := sortDirection(q.SortOrder)

	switch kind {
	case model.SortByID:
		return bson.D{{Key: "_id", Value: dir}}, nil
	case model.SortByDataPrefix:
		return bson.D{{Key: "data." + field, Value: dir}, {Key: "_id", Value: dir}}, nil
	default:
		return bson.D{{Key: "createdAt", Value: dir}, {Key: "_id", Value: dir}}, nil
	}
}

// normalizeBSON turns the driver's decoded documents and arrays back into
// the plain maps and slices that came in as JSON.
func normalizeBSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeBSON(item)
		}
		return out
	case primitive.M:
		return normalizeBSON(map[string]any(v))
	case primitive.D:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.A:
		return normalizeBSON([]any(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeBSON(item)
		}
		return out
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func (s *mongoStore) Close() error {
	return disconnect(s.client)
}

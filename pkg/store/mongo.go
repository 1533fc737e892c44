package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/errors"
)

const connectTimeout = 10 * time.Second

// MongoStore stores reports in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// collection indexes.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if database == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo database is required")
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to mongo")
	}
	err = cache.RetryWithBackoff(cctx, func() error {
		return cache.Retryable(client.Ping(cctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	s := &MongoStore{client: client, coll: client.Database(database).Collection(DefaultCollection)}
	if err := s.ensureIndexes(cctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "path", Value: 1}, {Key: "generated", Value: -1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create report index")
	}
	return nil
}

// SaveReport inserts or replaces r by id.
func (s *MongoStore) SaveReport(ctx context.Context, r *analysis.Report) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "report id is required")
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save report %s", r.ID)
	}
	return nil
}

// GetReport loads one report.
func (s *MongoStore) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	var r analysis.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load report %s", id)
	}
	return &r, nil
}

// ListReports returns matching reports, newest first.
func (s *MongoStore) ListReports(ctx context.Context, q Query) ([]*analysis.Report, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generated", Value: -1}}).
		SetLimit(q.limit())
	cur, err := s.coll.Find(ctx, filter(q), opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list reports")
	}
	var out []*analysis.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode reports")
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func filter(q Query) bson.D {
	f := bson.D{}
	if q.Path != "" {
		f = append(f, bson.E{Key: "path", Value: q.Path})
	}
	if q.Mode != "" {
		f = append(f, bson.E{Key: "mode", Value: q.Mode})
	}
	return f
}

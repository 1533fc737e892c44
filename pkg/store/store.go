// Package store persists analysis reports.
//
// MongoStore keeps reports in a MongoDB collection keyed by report id so
// the history of a project can be queried later:
//
//	s, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "tscproj")
//	if err != nil { ... }
//	defer s.Close(ctx)
//	err = s.SaveReport(ctx, report)
//	history, err := s.ListReports(ctx, store.Query{Path: "demo.tscproj", Limit: 10})
//
// MemoryStore implements the same interface in process.
package store

import (
	"context"

	"github.com/matzehuels/tscproj/pkg/analysis"
)

// DefaultCollection holds the reports.
const DefaultCollection = "reports"

// DefaultLimit caps ListReports when Query.Limit is zero.
const DefaultLimit = 50

// Store saves and retrieves reports.
type Store interface {
	SaveReport(ctx context.Context, r *analysis.Report) error
	GetReport(ctx context.Context, id string) (*analysis.Report, error)
	// ListReports returns matching reports, newest first.
	ListReports(ctx context.Context, q Query) ([]*analysis.Report, error)
	Close(ctx context.Context) error
}

// Query filters ListReports. Empty fields match everything.
type Query struct {
	Path  string
	Mode  string
	Limit int64
}

func (q Query) limit() int64 {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

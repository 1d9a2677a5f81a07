// Package runlog keeps a history of pipeline runs.
package runlog

import (
	"context"
	"time"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunRecord captures the outcome of one pipeline run.
type RunRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	PlanPath    string         `json:"plan_path"`
	Movements   int            `json:"movements"`
	Trains      int            `json:"trains"`
	Constraints map[string]int `json:"constraints,omitempty"`
	Actions     int            `json:"actions"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

// RunQuery filters records. Zero values match everything.
type RunQuery struct {
	Start  time.Time
	End    time.Time
	Status string
}

func (q RunQuery) match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return q.Status == "" || r.Status == q.Status
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error              { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }

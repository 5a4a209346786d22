package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivityRecord is the persisted form of an ActivityEvent.
type ActivityRecord struct {
	bun.BaseModel `bun:"table:auth_activity,alias:act"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	EventType     string         `bun:"event_type,notnull" json:"event_type,omitempty"`
	AccountID     int64          `bun:"account_id" json:"account_id,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	OccurredAt    time.Time      `bun:"occurred_at,nullzero,default:current_timestamp" json:"occurred_at,omitempty"`
}

// NewActivitiesRepository returns a generic repository over activity records.
func NewActivitiesRepository(db *bun.DB) repository.Repository[*ActivityRecord] {
	handlers := repository.ModelHandlers[*ActivityRecord]{
		NewRecord: func() *ActivityRecord {
			return &ActivityRecord{}
		},
		GetID: func(record *ActivityRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *ActivityRecord, id uuid.UUID) {
			record.ID = id
		},
	}
	return repository.NewRepository(db, handlers)
}

// RepositoryActivitySink persists auth events through the activities
// repository. Record is best-effort from the caller's point of view; the
// Auther logs and continues when it fails.
type RepositoryActivitySink struct {
	activities repository.Repository[*ActivityRecord]
}

var _ ActivitySink = (*RepositoryActivitySink)(nil)

// NewRepositoryActivitySink builds a sink writing into auth_activity.
func NewRepositoryActivitySink(activities repository.Repository[*ActivityRecord]) *RepositoryActivitySink {
	return &RepositoryActivitySink{activities: activities}
}

// Record implements ActivitySink.
func (s *RepositoryActivitySink) Record(ctx context.Context, event ActivityEvent) error {
	record := &ActivityRecord{
		ID:         uuid.New(),
		EventType:  string(event.EventType),
		AccountID:  event.AccountID,
		Metadata:   event.Metadata,
		OccurredAt: event.OccurredAt,
	}

	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	_, err := s.activities.Create(ctx, record)
	return err
}

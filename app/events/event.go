package events

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

const (
	KindPostCreated        = "post.created"
	KindPostDeleted        = "post.deleted"
	KindReviewOutcome      = "review.outcome"
	KindReviewNotification = "review.notification"
)

// Post lifecycle events share one ledger stream per post so a late create can't
// resurrect a deleted post.
const (
	PostCreatedVersion int64 = 1
	PostDeletedVersion int64 = 2

	PostLifecycleStream = "post.lifecycle"
)

// Event is an outbox entry waiting to be dispatched
type Event struct {
	Seq         int64           `json:"seq"`
	ID          string          `json:"id"`
	DedupKey    string          `json:"dedupKey"`
	Kind        string          `json:"kind"`
	AggregateID int64           `json:"aggregateId"`
	Version     int64           `json:"version"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"lastError,omitempty"`

	// NextAttemptAt is zero until a dispatch fails
	NextAttemptAt time.Time `json:"nextAttemptAt"`
}

// Due reports whether the relay may dispatch the event at now
func (e *Event) Due(now time.Time) bool {
	return !e.NextAttemptAt.After(now)
}

// NewEvent builds an unstaged event; Seq is assigned when it is staged
func NewEvent(kind string, aggregateID, version int64, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	return &Event{
		ID:          uuid.NewString(),
		DedupKey:    DedupKey(kind, aggregateID, version),
		Kind:        kind,
		AggregateID: aggregateID,
		Version:     version,
		Payload:     data,
		CreatedAt:   time.Now(),
	}, nil
}

// DedupKey is stable across retries of the same logical event
func DedupKey(kind string, aggregateID, version int64) string {
	sum := sha3.Sum256([]byte(fmt.Sprintf("%s|%d|%d", kind, aggregateID, version)))
	return hex.EncodeToString(sum[:])
}

package storage

import (
	"context"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
)

// EmotionCount is one row of a per-label aggregation.
type EmotionCount struct {
	Emotion string
	Count   int64
}

// DailyCount is one row of a per-day, per-label aggregation.
// Date is a calendar date in YYYY-MM-DD form.
type DailyCount struct {
	Date    string
	Emotion string
	Count   int64
}

// UserEvent is an emotion event joined with the owner's email.
type UserEvent struct {
	UserID    int64
	Email     string
	Emotion   string
	Timestamp time.Time
}

// EmotionStorage defines interface for emotion event persistence
type EmotionStorage interface {
	// AddEvent inserts one event and fills in the assigned ID and timestamp.
	// Events are append-only; no update operation exists.
	AddEvent(ctx context.Context, event *models.EmotionEvent) error

	// ListEventsByUser returns all events for a user ordered by timestamp ascending.
	// IDs are the stored primary keys, stable across calls.
	ListEventsByUser(ctx context.Context, userID int64) ([]*models.EmotionEvent, error)

	// CountsByEmotion groups events by label within [from, to] and counts them,
	// ordered by count descending, label ascending for a deterministic tie-break.
	// userID == 0 aggregates across all users.
	CountsByEmotion(ctx context.Context, userID int64, from, to time.Time) ([]EmotionCount, error)

	// DailyCounts groups a user's events by (calendar date, label),
	// ordered by date ascending.
	DailyCounts(ctx context.Context, userID int64) ([]DailyCount, error)

	// AllEventsWithEmail returns every event joined with the owner's email,
	// ordered by user id then timestamp.
	AllEventsWithEmail(ctx context.Context) ([]UserEvent, error)
}

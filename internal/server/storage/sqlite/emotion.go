package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
	"github.com/iudanet/moodtrack/internal/server/storage"
)

// AddEvent inserts one emotion event and fills in the assigned ID.
// The timestamp is set here, not by a column default, so that every
// stored value goes through the driver in the same format.
// Normalized to UTC: все хранимые значения несут один offset,
// и текстовое сравнение диапазонов совпадает с хронологическим.
func (s *Storage) AddEvent(ctx context.Context, event *models.EmotionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	query := `
		INSERT INTO emotions (user_id, emotion, timestamp)
		VALUES (?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query, event.UserID, event.Emotion, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert emotion event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	event.ID = id

	return nil
}

// ListEventsByUser returns all events for a user ordered by timestamp ascending
func (s *Storage) ListEventsByUser(ctx context.Context, userID int64) ([]*models.EmotionEvent, error) {
	query := `
		SELECT id, user_id, emotion, timestamp
		FROM emotions
		WHERE user_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion events: %w", err)
	}
	defer rows.Close()

	var events []*models.EmotionEvent
	for rows.Next() {
		event := &models.EmotionEvent{}
		if err := rows.Scan(&event.ID, &event.UserID, &event.Emotion, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan emotion event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion events: %w", err)
	}

	return events, nil
}

// CountsByEmotion groups events by label within [from, to] and counts them.
// Ordered by count descending, label ascending — ставит tie-break в сам запрос,
// чтобы доминирующая эмоция не зависела от порядка выдачи движка.
// userID == 0 агрегирует по всем пользователям.
func (s *Storage) CountsByEmotion(ctx context.Context, userID int64, from, to time.Time) ([]storage.EmotionCount, error) {
	query := `
		SELECT emotion, COUNT(*) AS cnt
		FROM emotions
		WHERE (? = 0 OR user_id = ?)
		  AND timestamp >= ? AND timestamp <= ?
		GROUP BY emotion
		ORDER BY cnt DESC, emotion ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion counts: %w", err)
	}
	defer rows.Close()

	var counts []storage.EmotionCount
	for rows.Next() {
		var c storage.EmotionCount
		if err := rows.Scan(&c.Emotion, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan emotion count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion counts: %w", err)
	}

	return counts, nil
}

// DailyCounts groups a user's events by (calendar date, label), dates ascending
func (s *Storage) DailyCounts(ctx context.Context, userID int64) ([]storage.DailyCount, error) {
	query := `
		SELECT date(timestamp) AS day, emotion, COUNT(*) AS cnt
		FROM emotions
		WHERE user_id = ?
		GROUP BY day, emotion
		ORDER BY day ASC, emotion ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	var counts []storage.DailyCount
	for rows.Next() {
		var c storage.DailyCount
		if err := rows.Scan(&c.Date, &c.Emotion, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily counts: %w", err)
	}

	return counts, nil
}

// AllEventsWithEmail returns every event joined with the owner's email,
// ordered by user id then timestamp
func (s *Storage) AllEventsWithEmail(ctx context.Context) ([]storage.UserEvent, error) {
	query := `
		SELECT emotions.user_id, users.email, emotions.emotion, emotions.timestamp
		FROM emotions
		JOIN users ON emotions.user_id = users.id
		ORDER BY emotions.user_id ASC, emotions.timestamp ASC, emotions.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all events: %w", err)
	}
	defer rows.Close()

	var events []storage.UserEvent
	for rows.Next() {
		var e storage.UserEvent
		if err := rows.Scan(&e.UserID, &e.Email, &e.Emotion, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

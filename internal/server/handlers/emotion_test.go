package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/moodtrack/internal/models"
	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/pkg/api"
)

// mockEmotionStorage is a mock implementation of EmotionStorage for testing
type mockEmotionStorage struct {
	events   []*models.EmotionEvent
	counts   []storage.EmotionCount
	daily    []storage.DailyCount
	all      []storage.UserEvent
	addError error
	getError error

	// параметры последнего вызова CountsByEmotion
	lastUserID   int64
	lastFrom     time.Time
	lastTo       time.Time
	countsCalled bool
}

func (m *mockEmotionStorage) AddEvent(ctx context.Context, event *models.EmotionEvent) error {
	if m.addError != nil {
		return m.addError
	}
	event.ID = int64(len(m.events) + 1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEmotionStorage) ListEventsByUser(ctx context.Context, userID int64) ([]*models.EmotionEvent, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*models.EmotionEvent
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEmotionStorage) CountsByEmotion(ctx context.Context, userID int64, from, to time.Time) ([]storage.EmotionCount, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	m.countsCalled = true
	m.lastUserID = userID
	m.lastFrom = from
	m.lastTo = to
	return m.counts, nil
}

func (m *mockEmotionStorage) DailyCounts(ctx context.Context, userID int64) ([]storage.DailyCount, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.daily, nil
}

func (m *mockEmotionStorage) AllEventsWithEmail(ctx context.Context) ([]storage.UserEvent, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.all, nil
}

func getRequest(t *testing.T, handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAddEmotion(t *testing.T) {
	emotions := &mockEmotionStorage{}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := postJSON(t, h.AddEmotion, "/user/add_emotion", api.AddEmotionRequest{
		Emotion: "happy",
		UserID:  7,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, emotions.events, 1)
	assert.Equal(t, int64(7), emotions.events[0].UserID)
	assert.Equal(t, "happy", emotions.events[0].Emotion)
}

func TestAddEmotion_Validation(t *testing.T) {
	emotions := &mockEmotionStorage{}
	h := NewEmotionHandler(testLogger(), emotions)

	tests := []struct {
		name string
		req  api.AddEmotionRequest
	}{
		{"empty emotion", api.AddEmotionRequest{Emotion: "", UserID: 7}},
		{"missing user", api.AddEmotionRequest{Emotion: "happy", UserID: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.AddEmotion, "/user/add_emotion", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, emotions.events)
}

func TestGetEmotion_StableIDs(t *testing.T) {
	now := time.Now().UTC()
	emotions := &mockEmotionStorage{
		events: []*models.EmotionEvent{
			{ID: 11, UserID: 7, Emotion: "happy", Timestamp: now.Add(-2 * time.Hour)},
			{ID: 15, UserID: 7, Emotion: "sad", Timestamp: now.Add(-time.Hour)},
			{ID: 20, UserID: 9, Emotion: "angry", Timestamp: now},
		},
	}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotion, "/user/get_emotion?user_id=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.EmotionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Emotion, 2)

	// Возвращаются стабильные ключи хранилища, не позиционные номера
	assert.Equal(t, int64(11), resp.Emotion[0].ID)
	assert.Equal(t, int64(15), resp.Emotion[1].ID)
}

func TestGetEmotion_BadUserID(t *testing.T) {
	h := NewEmotionHandler(testLogger(), &mockEmotionStorage{})

	for _, target := range []string{
		"/user/get_emotion",
		"/user/get_emotion?user_id=abc",
		"/user/get_emotion?user_id=-1",
	} {
		rec := getRequest(t, h.GetEmotion, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestGetEmotionStats_Fixture(t *testing.T) {
	// Фикстура спецификации: happy x3, sad x1, joyful x2
	emotions := &mockEmotionStorage{
		counts: []storage.EmotionCount{
			{Emotion: "happy", Count: 3},
			{Emotion: "joyful", Count: 2},
			{Emotion: "sad", Count: 1},
		},
	}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotionStats, "/user/get_emotion_stats?user_id=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.NotNil(t, resp.DominantEmotion)
	assert.Equal(t, "happy", *resp.DominantEmotion)
	assert.Equal(t, int64(5), resp.PositiveCount)
	assert.Equal(t, int64(1), resp.NegativeCount)
	assert.Equal(t, "Positive", resp.MoodBalance)
	require.Len(t, resp.Counts, 3)
	assert.Equal(t, int64(3), resp.Counts[0].Count)
}

func TestGetEmotionStats_EmptySet(t *testing.T) {
	emotions := &mockEmotionStorage{}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotionStats, "/user/get_emotion_stats?user_id=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Пустой набор: нет доминирующей эмоции, 0 == 0 дает Neutral
	assert.Nil(t, resp.DominantEmotion)
	assert.Equal(t, "Neutral", resp.MoodBalance)
	assert.Zero(t, resp.PositiveCount)
	assert.Zero(t, resp.NegativeCount)
}

func TestGetEmotionStats_DefaultWindow(t *testing.T) {
	emotions := &mockEmotionStorage{}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotionStats, "/user/get_emotion_stats?user_id=7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, emotions.countsCalled)

	// Без явного периода — скользящие 30 дней до текущего момента
	assert.Equal(t, int64(7), emotions.lastUserID)
	assert.WithinDuration(t, time.Now().UTC(), emotions.lastTo, 5*time.Second)
	assert.WithinDuration(t, time.Now().UTC().Add(-defaultStatsWindow), emotions.lastFrom, 5*time.Second)
}

func TestGetEmotionStats_ExplicitRange(t *testing.T) {
	emotions := &mockEmotionStorage{}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotionStats,
		"/user/get_emotion_stats?user_id=7&start_date=2026-01-01&end_date=2026-01-31")
	require.Equal(t, http.StatusOK, rec.Code)

	// Границы включительные: [start 00:00, end 23:59:59.999...]
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), emotions.lastFrom)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), emotions.lastTo)
}

func TestGetEmotionStats_BadRange(t *testing.T) {
	h := NewEmotionHandler(testLogger(), &mockEmotionStorage{})

	for _, target := range []string{
		"/user/get_emotion_stats?start_date=January",
		"/user/get_emotion_stats?end_date=2026-13-40",
		"/user/get_emotion_stats?start_date=2026-02-01&end_date=2026-01-01",
	} {
		rec := getRequest(t, h.GetEmotionStats, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestGetEmotionTrends_SameDateGrouping(t *testing.T) {
	// Два события в один календарный день с разными эмоциями
	emotions := &mockEmotionStorage{
		daily: []storage.DailyCount{
			{Date: "2026-03-01", Emotion: "happy", Count: 1},
			{Date: "2026-03-01", Emotion: "sad", Count: 1},
			{Date: "2026-03-02", Emotion: "happy", Count: 2},
		},
	}
	h := NewEmotionHandler(testLogger(), emotions)

	rec := getRequest(t, h.GetEmotionTrends, "/user/get_emotion_trends?user_id=7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.TrendsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Trends, 2)
	assert.Equal(t, int64(1), resp.Trends["2026-03-01"]["happy"])
	assert.Equal(t, int64(1), resp.Trends["2026-03-01"]["sad"])
	assert.Equal(t, int64(2), resp.Trends["2026-03-02"]["happy"])

	// Даты по возрастанию
	assert.Equal(t, []string{"2026-03-01", "2026-03-02"}, resp.Dates)
}

func TestBuildStats_NegativeBalance(t *testing.T) {
	t.Parallel()

	counts := []storage.EmotionCount{
		{Emotion: "sad", Count: 4},
		{Emotion: "happy", Count: 1},
	}
	resp := buildStats(counts, time.Now().Add(-time.Hour), time.Now())

	require.NotNil(t, resp.DominantEmotion)
	assert.Equal(t, "sad", *resp.DominantEmotion)
	assert.Equal(t, "Negative", resp.MoodBalance)
}

func TestBuildStats_EqualSumsNeutral(t *testing.T) {
	t.Parallel()

	counts := []storage.EmotionCount{
		{Emotion: "angry", Count: 2},
		{Emotion: "excited", Count: 2},
		{Emotion: "bored", Count: 5}, // вне обоих наборов, на баланс не влияет
	}
	resp := buildStats(counts, time.Now().Add(-time.Hour), time.Now())

	assert.Equal(t, int64(2), resp.PositiveCount)
	assert.Equal(t, int64(2), resp.NegativeCount)
	assert.Equal(t, "Neutral", resp.MoodBalance)
}

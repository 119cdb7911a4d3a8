package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/internal/validation"
	"github.com/iudanet/moodtrack/pkg/api"
)

// Фиксированные наборы меток для mood balance
var (
	positiveEmotions = map[string]bool{"happy": true, "joyful": true, "excited": true}
	negativeEmotions = map[string]bool{"sad": true, "angry": true, "anxious": true}
)

// dateLayout формат дат в query параметрах и ответах
const dateLayout = "2006-01-02"

// defaultStatsWindow окно статистики, если период не задан явно
const defaultStatsWindow = 30 * 24 * time.Hour

// EmotionHandler обрабатывает запись и агрегацию эмоций
type EmotionHandler struct {
	logger   *slog.Logger
	emotions storage.EmotionStorage
}

// NewEmotionHandler создает новый handler эмоций
func NewEmotionHandler(logger *slog.Logger, emotions storage.EmotionStorage) *EmotionHandler {
	return &EmotionHandler{
		logger:   logger,
		emotions: emotions,
	}
}

// AddEmotion обрабатывает POST /user/add_emotion
// Записывает одно событие; метка произвольная, без перечисления
func (h *EmotionHandler) AddEmotion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AddEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode add emotion request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmotion(req.Emotion); err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID <= 0 {
		SendError(h.logger, w, "userId is required", http.StatusBadRequest)
		return
	}

	event := &models.EmotionEvent{
		UserID:  req.UserID,
		Emotion: req.Emotion,
	}

	if err := h.emotions.AddEvent(ctx, event); err != nil {
		h.logger.Error("failed to add emotion event", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("emotion recorded",
		slog.Int64("user_id", req.UserID),
		slog.String("emotion", req.Emotion),
		slog.Int64("event_id", event.ID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Emotion data added successfully"}, http.StatusOK)
}

// GetEmotion обрабатывает GET /user/get_emotion?user_id=N
// Возвращает все события пользователя по возрастанию времени.
// ID событий — стабильные ключи хранилища, не позиционные номера.
func (h *EmotionHandler) GetEmotion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := parseUserID(r.URL.Query().Get("user_id"), true)
	if err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := h.emotions.ListEventsByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list emotion events", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	entries := make([]api.EmotionEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, api.EmotionEntry{
			ID:        e.ID,
			Emotion:   e.Emotion,
			Timestamp: e.Timestamp,
		})
	}

	sendJSON(h.logger, w, api.EmotionListResponse{Emotion: entries}, http.StatusOK)
}

// GetEmotionStats обрабатывает GET /user/get_emotion_stats
// Параметры: user_id? (0 или пусто — по всем), start_date?, end_date? (YYYY-MM-DD).
// Без явного периода берутся последние 30 дней.
func (h *EmotionHandler) GetEmotionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	userID, err := parseUserID(q.Get("user_id"), false)
	if err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	from, to, err := parseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	counts, err := h.emotions.CountsByEmotion(ctx, userID, from, to)
	if err != nil {
		h.logger.Error("failed to aggregate emotion stats", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, buildStats(counts, from, to), http.StatusOK)
}

// GetEmotionTrends обрабатывает GET /user/get_emotion_trends?user_id=N
// Возвращает счетчики по (дата, эмоция), даты по возрастанию
func (h *EmotionHandler) GetEmotionTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := parseUserID(r.URL.Query().Get("user_id"), true)
	if err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	daily, err := h.emotions.DailyCounts(ctx, userID)
	if err != nil {
		h.logger.Error("failed to aggregate emotion trends", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	trends := make(map[string]map[string]int64)
	dates := make([]string, 0)
	for _, row := range daily {
		day, ok := trends[row.Date]
		if !ok {
			day = make(map[string]int64)
			trends[row.Date] = day
			dates = append(dates, row.Date) // запрос уже отдает даты по возрастанию
		}
		day[row.Emotion] = row.Count
	}

	sendJSON(h.logger, w, api.TrendsResponse{Trends: trends, Dates: dates}, http.StatusOK)
}

// parseUserID разбирает user_id из query. При required=false пустое
// значение означает агрегацию по всем пользователям (0).
func parseUserID(raw string, required bool) (int64, error) {
	if raw == "" {
		if required {
			return 0, errInvalidUserID
		}
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidUserID
	}
	return id, nil
}

// errInvalidUserID единое сообщение для некорректного user_id
var errInvalidUserID = &badParamError{"user_id must be a positive integer"}

type badParamError struct{ msg string }

func (e *badParamError) Error() string { return e.msg }

// parseDateRange разбирает границы периода. Границы включительные:
// [start 00:00:00, end 23:59:59.999...] по UTC. Без обеих границ —
// скользящее окно в 30 дней, заканчивающееся сейчас.
func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Add(-defaultStatsWindow)
	to := now

	if startRaw != "" {
		d, err := time.ParseInLocation(dateLayout, startRaw, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, &badParamError{"start_date must be YYYY-MM-DD"}
		}
		from = d
	}

	if endRaw != "" {
		d, err := time.ParseInLocation(dateLayout, endRaw, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, &badParamError{"end_date must be YYYY-MM-DD"}
		}
		// Конец дня, чтобы граница была включительной
		to = d.Add(24*time.Hour - time.Nanosecond)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, &badParamError{"end_date is before start_date"}
	}

	return from, to, nil
}

// buildStats собирает ответ статистики из отсортированных счетчиков.
// counts приходят упорядоченными по count DESC, emotion ASC, поэтому
// доминирующая эмоция — первый элемент (tie-break детерминирован).
func buildStats(counts []storage.EmotionCount, from, to time.Time) api.StatsResponse {
	resp := api.StatsResponse{
		Counts:      make([]api.EmotionCount, 0, len(counts)),
		MoodBalance: "Neutral",
		StartDate:   from.Format(dateLayout),
		EndDate:     to.Format(dateLayout),
	}

	for _, c := range counts {
		resp.Counts = append(resp.Counts, api.EmotionCount{Emotion: c.Emotion, Count: c.Count})

		if positiveEmotions[c.Emotion] {
			resp.PositiveCount += c.Count
		}
		if negativeEmotions[c.Emotion] {
			resp.NegativeCount += c.Count
		}
	}

	if len(counts) > 0 {
		dominant := counts[0].Emotion
		resp.DominantEmotion = &dominant
	}

	// Равные суммы (включая 0 == 0 на пустом наборе) дают Neutral
	switch {
	case resp.PositiveCount > resp.NegativeCount:
		resp.MoodBalance = "Positive"
	case resp.NegativeCount > resp.PositiveCount:
		resp.MoodBalance = "Negative"
	}

	return resp
}

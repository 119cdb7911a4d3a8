package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/pkg/api"
)

// AdminHandler обрабатывает кросс-пользовательские агрегаты.
// Оба эндпоинта закрыты admin middleware — в том числе глобальная
// статистика, у которой исторически проверки не было.
type AdminHandler struct {
	logger   *slog.Logger
	emotions storage.EmotionStorage
}

// NewAdminHandler создает новый admin handler
func NewAdminHandler(logger *slog.Logger, emotions storage.EmotionStorage) *AdminHandler {
	return &AdminHandler{
		logger:   logger,
		emotions: emotions,
	}
}

// GetAllEmotion обрабатывает GET /admin/get_all_emotion
// Возвращает события всех пользователей, сгруппированные по пользователю,
// с email из JOIN и таймлайнами по возрастанию времени
func (h *AdminHandler) GetAllEmotion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.emotions.AllEventsWithEmail(ctx)
	if err != nil {
		h.logger.Error("failed to fetch all emotion events", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// События приходят упорядоченными по user_id, затем по времени,
	// поэтому группировка — один проход
	data := make([]api.UserEmotions, 0)
	for _, e := range events {
		if len(data) == 0 || data[len(data)-1].UserID != e.UserID {
			data = append(data, api.UserEmotions{
				UserID:   e.UserID,
				Email:    e.Email,
				Emotions: make([]api.TimelineEntry, 0, 4),
			})
		}
		last := &data[len(data)-1]
		last.Emotions = append(last.Emotions, api.TimelineEntry{
			Emotion:   e.Emotion,
			Timestamp: e.Timestamp,
		})
	}

	sendJSON(h.logger, w, api.AllEmotionsResponse{Data: data}, http.StatusOK)
}

// GetEmotionStats обрабатывает GET /admin/get_emotion_stats
// Та же агрегация, что и пользовательская статистика, но по всем
// пользователям за последние 30 дней
func (h *AdminHandler) GetEmotionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now().UTC()
	from := now.Add(-defaultStatsWindow)

	counts, err := h.emotions.CountsByEmotion(ctx, 0, from, now)
	if err != nil {
		h.logger.Error("failed to aggregate global emotion stats", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, buildStats(counts, from, now), http.StatusOK)
}

package api

import "time"

// UserEmotions представляет таймлайн эмоций одного пользователя
// в выдаче admin эндпоинта
type UserEmotions struct {
	UserID   int64           `json:"user_id"`
	Email    string          `json:"email"`
	Emotions []TimelineEntry `json:"emotions"` // по возрастанию timestamp
}

// TimelineEntry представляет одно событие таймлайна
type TimelineEntry struct {
	Emotion   string    `json:"emotion"`
	Timestamp time.Time `json:"timestamp"`
}

// AllEmotionsResponse представляет сгруппированные по пользователям события
type AllEmotionsResponse struct {
	Data []UserEmotions `json:"data"`
}

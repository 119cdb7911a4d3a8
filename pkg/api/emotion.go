package api

import "time"

// AddEmotionRequest представляет запрос на запись эмоции
type AddEmotionRequest struct {
	Emotion string `json:"emotion"` // произвольная метка, без перечисления
	UserID  int64  `json:"userId"`  // владелец события
}

// EmotionEntry представляет одно событие в ответе списка
type EmotionEntry struct {
	ID        int64     `json:"id"`
	Emotion   string    `json:"emotion"`
	Timestamp time.Time `json:"timestamp"`
}

// EmotionListResponse представляет события одного пользователя
type EmotionListResponse struct {
	Emotion []EmotionEntry `json:"emotion"`
}

// EmotionCount представляет счетчик одной метки в агрегации
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int64  `json:"count"`
}

// StatsResponse представляет агрегированную статистику за период.
// DominantEmotion равен nil при пустом наборе событий.
type StatsResponse struct {
	DominantEmotion *string        `json:"dominant_emotion"`
	Counts          []EmotionCount `json:"counts"`         // отсортированы по убыванию count
	PositiveCount   int64          `json:"positive_count"` // сумма по {happy, joyful, excited}
	NegativeCount   int64          `json:"negative_count"` // сумма по {sad, angry, anxious}
	MoodBalance     string         `json:"mood_balance"`   // Positive | Negative | Neutral
	StartDate       string         `json:"start_date"`     // границы периода, YYYY-MM-DD
	EndDate         string         `json:"end_date"`
}

// TrendsResponse представляет счетчики по дням:
// дата (YYYY-MM-DD) -> метка эмоции -> количество, даты по возрастанию
type TrendsResponse struct {
	Trends map[string]map[string]int64 `json:"trends"`
	Dates  []string                    `json:"dates"` // ключи Trends по возрастанию
}

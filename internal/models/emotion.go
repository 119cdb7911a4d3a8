package models

import "time"

// EmotionEvent представляет одну записанную эмоцию пользователя.
// События append-only: после вставки запись никогда не меняется.
type EmotionEvent struct {
	ID        int64     `json:"id"`        // стабильный первичный ключ из хранилища
	UserID    int64     `json:"user_id"`   // владелец события
	Emotion   string    `json:"emotion"`   // произвольная текстовая метка
	Timestamp time.Time `json:"timestamp"` // момент записи, выставляется хранилищем
}

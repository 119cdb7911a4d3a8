package models

import "time"

// User представляет учетную запись пользователя
type User struct {
	ID             int64      `json:"id"`              // числовой ID, назначается хранилищем
	Email          string     `json:"email"`           // уникальный email, ключ аутентификации
	Name           string     `json:"name,omitempty"`  // отображаемое имя (опционально)
	Password       string     `json:"-"`               // bcrypt хеш, никогда не сериализуется
	IsAdmin        bool       `json:"isAdmin"`         // доступ к admin эндпоинтам
	AccountCreated time.Time  `json:"account_created"` // время создания, неизменяемое
	FaceDataPath   *string    `json:"face_data_path"`  // путь к сохраненному изображению, nullable
	LastLogin      *time.Time `json:"last_login"`      // время последнего успешного входа, nullable
}

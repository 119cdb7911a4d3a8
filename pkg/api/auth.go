package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`           // email пользователя, уникальный
	Password string `json:"password"`        // пароль в открытом виде (хешируется на сервере)
	Name     string `json:"name,omitempty"`  // отображаемое имя (опционально)
	IsAdmin  bool   `json:"isAdmin"`         // флаг администратора
}

// FaceDataRequest представляет запрос на загрузку фото лица при регистрации
type FaceDataRequest struct {
	Email    string `json:"email"`     // email зарегистрированного пользователя
	FaceData string `json:"face_data"` // base64 encoded PNG
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с bearer токеном
type TokenResponse struct {
	Token string `json:"token"` // подписанный JWT, время жизни задается сервером
}

// MessageResponse представляет ответ-подтверждение без данных
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse представляет публичное представление пользователя
type UserResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	IsAdmin        bool       `json:"isAdmin"`
	AccountCreated time.Time  `json:"account_created"`
	FaceDataPath   *string    `json:"face_data_path"`
	LastLogin      *time.Time `json:"last_login"`
}

// UserDetailsResponse оборачивает пользователя вместе с публичным URL изображения
type UserDetailsResponse struct {
	UserDetails UserDetails `json:"user_details"`
}

// UserDetails содержит данные пользователя и ссылку на его изображение
type UserDetails struct {
	UserResponse
	ImageURL string `json:"image_url,omitempty"` // публичный URL фото профиля
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // текст статуса HTTP
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// Package validation проверяет входные данные запросов
// до обращения к хранилищу.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxEmailLen максимальная длина email (ширина колонки в хранилище)
	MaxEmailLen = 100
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen максимальная длина пароля (входной предел bcrypt — 72 байта)
	MaxPasswordLen = 72
	// MaxEmotionLen максимальная длина метки эмоции
	MaxEmotionLen = 64
)

// validate — общий инстанс validator, потокобезопасен и кеширует структуры
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEmail проверяет, что email непустой, корректного формата
// и влезает в колонку
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю.
// Содержимое не ограничиваем, только длину.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLen)
	}

	return nil
}

// ValidateEmotion проверяет метку эмоции. Метки свободные,
// перечисления нет — ограничиваем только пустоту и длину.
func ValidateEmotion(emotion string) error {
	if emotion == "" {
		return fmt.Errorf("emotion cannot be empty")
	}

	if len(emotion) > MaxEmotionLen {
		return fmt.Errorf("emotion must not exceed %d characters", MaxEmotionLen)
	}

	return nil
}

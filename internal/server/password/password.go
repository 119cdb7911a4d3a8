// Package password реализует одностороннее хеширование паролей.
// Используется bcrypt: медленный соленый алгоритм, устойчивый
// к офлайн перебору. Открытый пароль нигде не сохраняется и не логируется.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost задает стоимость bcrypt (баланс безопасности и времени ответа)
const Cost = 12

// Hash возвращает соленый bcrypt дайджест открытого пароля
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify возвращает true, если пароль соответствует дайджесту.
// bcrypt.CompareHashAndPassword устойчив к timing атакам.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

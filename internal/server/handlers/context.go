package handlers

import (
	"context"

	"github.com/iudanet/moodtrack/internal/server/token"
)

// contextKey тип для ключей контекста
type contextKey string

// ClaimsKey ключ для хранения claims токена в контексте
const ClaimsKey contextKey = "claims"

// GetClaims извлекает claims аутентифицированного пользователя из контекста.
// Возвращает false, если запрос не прошел через auth middleware.
func GetClaims(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok
}

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/moodtrack/internal/server/handlers"
	"github.com/iudanet/moodtrack/internal/server/token"
)

// Auth создает middleware для проверки bearer токена.
// Успешно проверенные claims кладутся в контекст запроса.
func Auth(logger *slog.Logger, tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				handlers.SendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				handlers.SendError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}

			// Валидируем токен. Все исходы Verify сводятся к 401,
			// но expired отличаем в сообщении — клиент перезапрашивает вход.
			claims, err := tokens.Verify(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				message := "invalid token"
				if errors.Is(err, token.ErrExpired) {
					message = "token expired"
				}
				handlers.SendError(logger, w, message, http.StatusUnauthorized)
				return
			}

			logger.Debug("User authenticated", "user_id", claims.UserID, "email", claims.Subject)

			ctx := context.WithValue(r.Context(), handlers.ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly создает middleware, пропускающий только администраторов.
// Должен стоять после Auth: без claims в контексте запрос отклоняется.
func AdminOnly(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := handlers.GetClaims(r.Context())
			if !ok {
				logger.Error("Claims not found in context")
				handlers.SendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			if !claims.Role {
				logger.Warn("Non-admin access to admin endpoint",
					"user_id", claims.UserID,
					"path", r.URL.Path,
				)
				handlers.SendError(logger, w, "Access forbidden: Admins only", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Package token реализует выпуск и проверку bearer токенов.
// Токены stateless: сервер не хранит сессий, валидность целиком
// определяется подписью и сроком действия.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Verify всегда возвращает ровно одну из них
// при неуспехе — вызывающий код различает случаи через errors.Is.
var (
	// ErrExpired означает корректно подписанный, но истекший токен
	ErrExpired = errors.New("token expired")

	// ErrMalformed означает строку, которая не парсится как JWT
	ErrMalformed = errors.New("token malformed")

	// ErrInvalid означает неверную подпись или недопустимые claims
	ErrInvalid = errors.New("token invalid")
)

// Claims представляет утверждения токена приложения.
// Subject регистрируемого claim содержит email пользователя.
type Claims struct {
	Role   bool  `json:"role"` // флаг администратора
	UserID int64 `json:"id"`   // числовой ID пользователя
	jwt.RegisteredClaims
}

// Service подписывает и проверяет токены одним серверным секретом
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService создает новый token service.
// secret должен быть криптографически случайной строкой,
// ttl — время жизни токена (60 минут по умолчанию в конфиге).
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue подписывает claims для пользователя и возвращает компактный токен
func (s *Service) Issue(email string, isAdmin bool, userID int64) (string, error) {
	now := time.Now()

	claims := Claims{
		Role:   isAdmin,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "moodtrack",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись и срок действия и возвращает claims.
// Операция тотальна: любой неуспех сводится к ErrExpired,
// ErrMalformed или ErrInvalid, паник и прочих ошибок не бывает.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Принимаем только HMAC, чтобы исключить подмену алгоритма
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}

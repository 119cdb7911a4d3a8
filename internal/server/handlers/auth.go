package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
	"github.com/iudanet/moodtrack/internal/server/facestore"
	"github.com/iudanet/moodtrack/internal/server/password"
	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/internal/server/token"
	"github.com/iudanet/moodtrack/internal/validation"
	"github.com/iudanet/moodtrack/pkg/api"
)

// AuthHandler обрабатывает запросы регистрации и аутентификации
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	faces  *facestore.Store
	tokens *token.Service
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, faces *facestore.Store, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		faces:  faces,
		tokens: tokens,
	}
}

// Register обрабатывает POST /auth/register
// Регистрация нового пользователя. Токен здесь не выдается:
// первый токен приходит из register/face-data или login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode register request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		h.logger.Warn("invalid email", slog.String("email", req.Email), slog.Any("error", err))
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	// Хешируем пароль; открытый текст дальше этой точки не живет
	digest, err := password.Hash(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		Password:       digest,
		IsAdmin:        req.IsAdmin,
		AccountCreated: time.Now().UTC(),
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.Warn("duplicate registration", slog.String("email", req.Email))
		}
		sendStorageError(h.logger, w, err)
		return
	}

	h.logger.Info("user registered",
		slog.String("email", req.Email),
		slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "User registered successfully"}, http.StatusOK)
}

// RegisterFaceData обрабатывает POST /auth/register/face-data
// Сохраняет base64 фото лица и выдает первый токен пользователя
func (h *AuthHandler) RegisterFaceData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.FaceDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode face data request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.FaceData == "" {
		SendError(h.logger, w, "face_data is required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	// Файл именуется по ID пользователя, а не по локальной части email:
	// alice@x и alice@y не могут затереть изображения друг друга
	path, err := h.faces.SaveBase64(user.ID, req.FaceData)
	if err != nil {
		h.logger.Error("failed to save face data", slog.Any("error", err), slog.Int64("user_id", user.ID))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdateFaceDataPath(ctx, user.ID, path); err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	tokenString, err := h.tokens.Issue(user.Email, user.IsAdmin, user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("face data registered", slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.TokenResponse{Token: tokenString}, http.StatusOK)
}

// Login обрабатывает POST /auth/login
// Проверяет учетные данные, обновляет last_login и выдает токен
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode login request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Не раскрываем, существует ли аккаунт
			h.logger.Warn("login failed: user not found", slog.String("email", req.Email))
			SendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		sendStorageError(h.logger, w, err)
		return
	}

	if !password.Verify(req.Password, user.Password) {
		h.logger.Warn("login failed: wrong password", slog.String("email", req.Email))
		SendError(h.logger, w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	tokenString, err := h.tokens.Issue(user.Email, user.IsAdmin, user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.Any("error", err))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	sendJSON(h.logger, w, api.TokenResponse{Token: tokenString}, http.StatusOK)
}

// Me обрабатывает GET /auth/users/me
// Возвращает запись аутентифицированного пользователя (без пароля).
// Ищем по числовому ID, а не по email из Subject: после смены email
// через update_profile токен остается действительным до истечения.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		h.logger.Error("claims not found in context")
		SendError(h.logger, w, "missing token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, toUserResponse(user), http.StatusOK)
}

// toUserResponse собирает публичное представление пользователя
func toUserResponse(user *models.User) api.UserResponse {
	return api.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		IsAdmin:        user.IsAdmin,
		AccountCreated: user.AccountCreated,
		FaceDataPath:   user.FaceDataPath,
		LastLogin:      user.LastLogin,
	}
}

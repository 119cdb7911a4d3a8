package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/moodtrack/internal/server/facestore"
	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/internal/validation"
	"github.com/iudanet/moodtrack/pkg/api"
)

// maxUploadSize предел размера multipart загрузки изображения
const maxUploadSize = 10 << 20 // 10 MiB

// UserHandler обрабатывает профиль пользователя и удаление аккаунта
type UserHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	faces  *facestore.Store
}

// NewUserHandler создает новый handler профиля
func NewUserHandler(logger *slog.Logger, users storage.UserStorage, faces *facestore.Store) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
		faces:  faces,
	}
}

// GetUserDetails обрабатывает GET /user/get_user_details
// Возвращает пользователя вместе с публичным URL его изображения
func (h *UserHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		SendError(h.logger, w, "missing token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	details := api.UserDetails{UserResponse: toUserResponse(user)}
	if user.FaceDataPath != nil {
		details.ImageURL = facestore.PublicURL(*user.FaceDataPath)
	}

	sendJSON(h.logger, w, api.UserDetailsResponse{UserDetails: details}, http.StatusOK)
}

// UpdateProfilePic обрабатывает POST /user/update_profile_pic
// Принимает multipart файл и заменяет изображение профиля
func (h *UserHandler) UpdateProfilePic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		SendError(h.logger, w, "missing token", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("failed to parse multipart form", slog.Any("error", err))
		SendError(h.logger, w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		SendError(h.logger, w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.faces.Save(claims.UserID, file)
	if err != nil {
		h.logger.Error("failed to save profile picture", slog.Any("error", err), slog.Int64("user_id", claims.UserID))
		SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdateFaceDataPath(ctx, claims.UserID, path); err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	h.logger.Info("profile picture updated", slog.Int64("user_id", claims.UserID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Profile picture updated successfully"}, http.StatusOK)
}

// UpdateProfile обрабатывает POST /user/update_profile
// Принимает form поля name, email и опциональный файл изображения.
// Отсутствующие поля сохраняют текущие значения (coalesce-on-update).
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		SendError(h.logger, w, "missing token", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("failed to parse multipart form", slog.Any("error", err))
		SendError(h.logger, w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	patch := storage.ProfilePatch{}

	if name := r.FormValue("name"); name != "" {
		patch.Name = &name
	}

	if email := r.FormValue("email"); email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			SendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		patch.Email = &email
	}

	if patch.Name != nil || patch.Email != nil {
		if err := h.users.UpdateProfile(ctx, claims.UserID, patch); err != nil {
			sendStorageError(h.logger, w, err)
			return
		}
	}

	// Изображение опционально и обновляется тем же путем, что и
	// отдельная загрузка фото профиля
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()

		path, err := h.faces.Save(claims.UserID, file)
		if err != nil {
			h.logger.Error("failed to save profile image", slog.Any("error", err), slog.Int64("user_id", claims.UserID))
			SendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := h.users.UpdateFaceDataPath(ctx, claims.UserID, path); err != nil {
			sendStorageError(h.logger, w, err)
			return
		}
	}

	h.logger.Info("profile updated", slog.Int64("user_id", claims.UserID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Profile updated successfully"}, http.StatusOK)
}

// DeleteRequest представляет тело запроса на удаление аккаунта
type DeleteRequest struct {
	Email string `json:"email"`
}

// Delete обрабатывает DELETE /user/delete
// Удаление необратимо; события пользователя уходят каскадом.
// Разрешено только самому пользователю или администратору.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		SendError(h.logger, w, "missing token", http.StatusUnauthorized)
		return
	}

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode delete request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			SendError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		sendStorageError(h.logger, w, err)
		return
	}

	if user.ID != claims.UserID && !claims.Role {
		h.logger.Warn("forbidden account deletion attempt",
			slog.Int64("caller_id", claims.UserID),
			slog.Int64("target_id", user.ID))
		SendError(h.logger, w, "Access forbidden", http.StatusForbidden)
		return
	}

	if err := h.users.DeleteUser(ctx, user.ID); err != nil {
		sendStorageError(h.logger, w, err)
		return
	}

	h.logger.Info("account deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("deleted_by", claims.UserID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Account deleted successfully"}, http.StatusOK)
}

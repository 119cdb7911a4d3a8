package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// SendError отправляет JSON ответ с ошибкой.
// Экспортирован: middleware отвечает тем же форматом, что и handlers.
func SendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// sendStorageError переводит ошибку хранилища в HTTP статус.
// Единая точка трансляции таксономии: duplicate email -> 400,
// не найден -> 404, прочее -> generic 500 без деталей.
func sendStorageError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrEmailTaken):
		SendError(logger, w, "Email already registered", http.StatusBadRequest)
	case errors.Is(err, storage.ErrUserNotFound):
		SendError(logger, w, "User not found", http.StatusNotFound)
	default:
		logger.Error("storage error", slog.Any("error", err))
		SendError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}

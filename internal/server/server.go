// Package server собирает HTTP слой: статическую таблицу маршрутов,
// цепочку middleware и жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/iudanet/moodtrack/internal/config"
	"github.com/iudanet/moodtrack/internal/server/facestore"
	"github.com/iudanet/moodtrack/internal/server/handlers"
	"github.com/iudanet/moodtrack/internal/server/middleware"
	"github.com/iudanet/moodtrack/internal/server/storage"
	"github.com/iudanet/moodtrack/internal/server/token"
)

// Server владеет http.Server и ресурсами middleware
type Server struct {
	logger      *slog.Logger
	cfg         *config.Config
	httpServer  *http.Server
	rateLimiter *middleware.RateLimiter
}

// Deps перечисляет зависимости, которые собирает main
type Deps struct {
	Users    storage.UserStorage
	Emotions storage.EmotionStorage
	Faces    *facestore.Store
	Tokens   *token.Service
	Version  string
}

// New создает сервер с полностью сконфигурированным роутером
func New(logger *slog.Logger, cfg *config.Config, deps Deps) *Server {
	s := &Server{
		logger: logger,
		cfg:    cfg,
		rateLimiter: middleware.NewRateLimiter(
			cfg.Security.AuthRateLimit,
			cfg.Security.AuthRateWindow,
			logger,
		),
	}

	s.httpServer = &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: s.router(deps),
	}

	return s
}

// router объявляет таблицу маршрутов статически — никакой динамической
// регистрации, все пути видны в одном месте
func (s *Server) router(deps Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(s.logger, deps.Users, deps.Faces, deps.Tokens)
	userHandler := handlers.NewUserHandler(s.logger, deps.Users, deps.Faces)
	emotionHandler := handlers.NewEmotionHandler(s.logger, deps.Emotions)
	adminHandler := handlers.NewAdminHandler(s.logger, deps.Emotions)
	healthHandler := handlers.NewHealthHandler(s.logger, deps.Version)

	requireAuth := middleware.Auth(s.logger, deps.Tokens)
	requireAdmin := middleware.AdminOnly(s.logger)

	r := chi.NewRouter()

	// Глобальная цепочка: request id -> recovery -> логирование -> CORS.
	// CORS глобально, чтобы preflight OPTIONS обрабатывался на любом пути.
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logging(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)

	// Аутентификация: rate limit против перебора паролей
	r.Route("/auth", func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware())

		r.Post("/register", authHandler.Register)
		r.Post("/register/face-data", authHandler.RegisterFaceData)
		r.Post("/login", authHandler.Login)

		r.With(requireAuth).Get("/users/me", authHandler.Me)
	})

	r.Route("/user", func(r chi.Router) {
		// Открытые эндпоинты записи/чтения эмоций (см. таблицу API)
		r.Post("/add_emotion", emotionHandler.AddEmotion)
		r.Get("/get_emotion", emotionHandler.GetEmotion)
		r.Get("/get_emotion_stats", emotionHandler.GetEmotionStats)
		r.Get("/get_emotion_trends", emotionHandler.GetEmotionTrends)

		// Профиль и удаление аккаунта требуют токен
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/get_user_details", userHandler.GetUserDetails)
			r.Post("/update_profile_pic", userHandler.UpdateProfilePic)
			r.Post("/update_profile", userHandler.UpdateProfile)
			r.Delete("/delete", userHandler.Delete)
		})
	})

	// Admin: оба эндпоинта за одной и той же парой middleware
	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(requireAdmin)

		r.Get("/get_all_emotion", adminHandler.GetAllEmotion)
		r.Get("/get_emotion_stats", adminHandler.GetEmotionStats)
	})

	// Статическая раздача сохраненных изображений
	r.Handle("/images/*", http.StripPrefix("/images/",
		http.FileServer(http.Dir(deps.Faces.Dir()))))

	return r
}

// Run запускает сервер и блокируется до отмены ctx,
// затем выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Server.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		s.rateLimiter.Stop()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	s.rateLimiter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// Handler возвращает корневой handler (для httptest в интеграционных тестах)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

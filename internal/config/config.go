// Package config загружает конфигурацию сервера слоями:
// встроенные значения по умолчанию, затем опциональный YAML файл,
// затем переменные окружения с префиксом MOODTRACK_ (высший приоритет).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix префикс переменных окружения:
// MOODTRACK_SERVER_LISTEN -> server.listen
const envPrefix = "MOODTRACK_"

// Config описывает всю конфигурацию сервера
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Auth     AuthConfig     `koanf:"auth"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig описывает HTTP слой
type ServerConfig struct {
	Listen          string        `koanf:"listen"`           // адрес прослушивания
	CORSOrigins     []string      `koanf:"cors_origins"`     // разрешенные origins, по умолчанию все
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // предел graceful shutdown
	Debug           bool          `koanf:"debug"`            // debug логирование (текстом вместо JSON)
}

// StorageConfig описывает персистентность
type StorageConfig struct {
	DBPath      string `koanf:"db_path"`       // путь к файлу SQLite
	FaceDataDir string `koanf:"face_data_dir"` // каталог изображений пользователей
}

// AuthConfig описывает выпуск токенов
type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"` // серверный секрет подписи, обязателен
	TokenTTL  time.Duration `koanf:"token_ttl"`  // время жизни токена
}

// SecurityConfig описывает защитные лимиты
type SecurityConfig struct {
	AuthRateLimit  int           `koanf:"auth_rate_limit"`  // запросов на IP в окно для /auth
	AuthRateWindow time.Duration `koanf:"auth_rate_window"` // длина окна
}

// defaultConfig возвращает значения по умолчанию
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen:          ":8000",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
			Debug:           false,
		},
		Storage: StorageConfig{
			DBPath:      "moodtrack.db",
			FaceDataDir: "face_data",
		},
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  60 * time.Minute,
		},
		Security: SecurityConfig{
			AuthRateLimit:  30,
			AuthRateWindow: time.Minute,
		},
	}
}

// Load собирает конфигурацию из defaults, файла (если путь непустой
// и файл существует) и окружения
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Слой 1: defaults из структуры
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Слой 2: опциональный YAML файл
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	// Слой 3: переменные окружения (высший приоритет)
	// MOODTRACK_AUTH_JWT_SECRET -> auth.jwt_secret
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и разумность значений
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (MOODTRACK_AUTH_JWT_SECRET)")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen cannot be empty")
	}

	if c.Security.AuthRateLimit <= 0 || c.Security.AuthRateWindow <= 0 {
		return fmt.Errorf("security rate limit parameters must be positive")
	}

	return nil
}

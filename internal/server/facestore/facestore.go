// Package facestore хранит изображения пользователей на файловой системе.
// Файл именуется по неизменяемому числовому ID пользователя, поэтому
// разные аккаунты не могут затереть изображения друг друга, а смена
// email не осиротит файл.
package facestore

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store пишет и отдает изображения в заданном каталоге
type Store struct {
	dir string
}

// New создает хранилище и каталог под него
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create face data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir возвращает корневой каталог изображений (для статической раздачи)
func (s *Store) Dir() string {
	return s.dir
}

// SaveBase64 декодирует base64 изображение и сохраняет его для пользователя.
// Возвращает путь сохраненного файла.
func (s *Store) SaveBase64(userID int64, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode face data: %w", err)
	}

	return s.write(userID, data)
}

// Save сохраняет изображение из потока (multipart загрузка)
func (s *Store) Save(userID int64, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return s.write(userID, data)
}

// write пишет во временный файл со случайным именем и переименовывает.
// Конкурентные загрузки одного пользователя сходятся на атомарном rename:
// выигрывает последний писатель, частично записанный файл наружу не виден.
func (s *Store) write(userID int64, data []byte) (string, error) {
	finalPath := filepath.Join(s.dir, FileName(userID))
	tmpPath := filepath.Join(s.dir, fmt.Sprintf(".%s.tmp", uuid.New().String()))

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return finalPath, nil
}

// FileName возвращает имя файла изображения для пользователя
func FileName(userID int64) string {
	return fmt.Sprintf("user_%d.png", userID)
}

// PublicURL переводит сохраненный путь в публичный URL под /images/
func PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return "/images/" + filepath.Base(path)
}

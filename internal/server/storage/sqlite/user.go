package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
	"github.com/iudanet/moodtrack/internal/server/storage"
)

// CreateUser inserts a new user and fills in the assigned ID
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password, is_admin, account_created)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		nullString(user.Name),
		user.Password,
		user.IsAdmin,
		user.AccountCreated.UTC(),
	)

	if err != nil {
		// Проверяем на duplicate email
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password, is_admin, account_created, face_data_path, last_login
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT id, email, name, password, is_admin, account_created, face_data_path, last_login
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// scanUser читает одну строку users в структуру
func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var name sql.NullString
	var facePath sql.NullString
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&name,
		&user.Password,
		&user.IsAdmin,
		&user.AccountCreated,
		&facePath,
		&lastLogin,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if name.Valid {
		user.Name = name.String
	}
	if facePath.Valid {
		user.FaceDataPath = &facePath.String
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// UpdateProfile applies a partial profile update with coalesce semantics:
// nil patch fields keep the stored values
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, patch storage.ProfilePatch) error {
	query := `
		UPDATE users
		SET name = COALESCE(?, name), email = COALESCE(?, email)
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, patch.Name, patch.Email, userID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return s.requireAffected(result)
}

// UpdateFaceDataPath stores the filesystem path of the user's image
func (s *Storage) UpdateFaceDataPath(ctx context.Context, userID int64, path string) error {
	query := `UPDATE users SET face_data_path = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, path, userID)
	if err != nil {
		return fmt.Errorf("failed to update face data path: %w", err)
	}

	return s.requireAffected(result)
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error {
	query := `UPDATE users SET last_login = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, lastLogin.UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return s.requireAffected(result)
}

// DeleteUser deletes user by ID; emotion events go with it via ON DELETE CASCADE
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return s.requireAffected(result)
}

// requireAffected переводит "0 строк затронуто" в ErrUserNotFound
func (s *Storage) requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// nullString конвертирует пустую строку в NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

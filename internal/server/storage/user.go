package storage

import (
	"context"
	"time"

	"github.com/iudanet/moodtrack/internal/models"
)

// ProfilePatch carries optional profile fields for a partial update.
// Nil fields keep their stored values (coalesce-on-update).
type ProfilePatch struct {
	Name  *string
	Email *string
}

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser inserts a new user and fills in the assigned ID.
	// Returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// UpdateProfile applies a partial profile update.
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrEmailTaken if the new email belongs to another user.
	UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) error

	// UpdateFaceDataPath stores the filesystem path of the user's image
	UpdateFaceDataPath(ctx context.Context, userID int64, path string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error

	// DeleteUser deletes user by ID together with their emotion events
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID int64) error
}

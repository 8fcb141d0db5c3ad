package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/models"
)

// Store defines the common interface for document-store operations. MongoDB
// implements it for deployments; MemoryStore implements it for tests and
// local runs without a database.
//
// Embedded-collection mutations (likes, comments, experience, education) are
// conditional single-document updates, not read-modify-write sequences, so
// concurrent requests against the same aggregate cannot lose updates.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Profile methods
	SaveProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error)
	GetAllProfiles(ctx context.Context) ([]*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error)
	AddExperience(ctx context.Context, userID uuid.UUID, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error)
	AddEducation(ctx context.Context, userID uuid.UUID, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error)
	DeleteProfileByUser(ctx context.Context, userID uuid.UUID) error

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	AddLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error)
	AddComment(ctx context.Context, postID uuid.UUID, comment models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID uuid.UUID) (*models.Post, error)
}

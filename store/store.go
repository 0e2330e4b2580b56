// Package store is the repository boundary between controllers and
// MongoDB. Handlers only see the interfaces; the mongo implementations
// keep all bson plumbing in one place.
package store

import (
	"context"
	"errors"

	"blogify/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAlreadyLiked   = errors.New("already liked")
)

// UserPatch carries the optional profile fields of an update. Zero
// values mean "leave unchanged".
type UserPatch struct {
	Name     string
	Password string
	Avatar   *models.Image
}

// PostPatch carries the optional fields of a post update. Zero values
// mean "leave unchanged".
type PostPatch struct {
	Title    string
	Content  string
	Category string
	Image    *models.Image
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByVerificationToken(ctx context.Context, token string) (*models.User, error)
	// MarkVerified flips the verified flag and clears the one-time token.
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	All(ctx context.Context) ([]models.Post, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	Update(ctx context.Context, id primitive.ObjectID, patch PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddLike atomically adds user to the like set. ErrAlreadyLiked when
	// the user is already present. Returns the resulting like count.
	AddLike(ctx context.Context, id, user primitive.ObjectID) (int, error)
	// RemoveLike atomically removes user from the like set. Removing an
	// absent user is a no-op. Returns the resulting like count.
	RemoveLike(ctx context.Context, id, user primitive.ObjectID) (int, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ByPost(ctx context.Context, post primitive.ObjectID) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ToggleLike atomically flips the user's membership in the like set.
	// Returns whether the user now likes the comment and the new count.
	ToggleLike(ctx context.Context, id, user primitive.ObjectID) (liked bool, count int, err error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}

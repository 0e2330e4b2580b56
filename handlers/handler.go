package handlers

import (
	"context"
	"net/http"
	"time"

	"blogify/auth"
	"blogify/mailer"
	"blogify/media"
	"blogify/middleware"
	"blogify/realtime"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

// Handler carries every collaborator the controllers need. All of them
// are injected so tests can swap in fakes.
type Handler struct {
	Users    store.UserStore
	Posts    store.PostStore
	Comments store.CommentStore
	Tokens   *auth.Service
	Mail     mailer.Mailer
	Media    media.Host
	Events   realtime.Publisher

	// BackendURL is the public base URL used in verification links.
	BackendURL string
}

func New(users store.UserStore, posts store.PostStore, comments store.CommentStore,
	tokens *auth.Service, mail mailer.Mailer, host media.Host, events realtime.Publisher,
	backendURL string) *Handler {
	return &Handler{
		Users:      users,
		Posts:      posts,
		Comments:   comments,
		Tokens:     tokens,
		Mail:       mail,
		Media:      host,
		Events:     events,
		BackendURL: backendURL,
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// actingUser resolves the authenticated user's ObjectID from the
// identity attached by the auth middleware. Responds 401 and returns
// false when the identity is missing or malformed.
func actingUser(c *gin.Context) (primitive.ObjectID, auth.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, auth.Identity{}, false
	}

	id, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid user ID")
		return primitive.NilObjectID, auth.Identity{}, false
	}
	return id, identity, true
}

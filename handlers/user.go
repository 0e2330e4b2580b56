package handlers

import (
	"log"
	"net/http"

	"blogify/media"
	"blogify/models"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.ByID(ctx, userID)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	posts, err := h.Posts.ByAuthor(ctx, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"posts": posts,
	})
}

// UpdateMyProfile patches name, password, and avatar from a multipart
// form. Only supplied fields change.
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.ByID(ctx, userID)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	patch := store.UserPatch{Name: c.PostForm("name")}

	if password := c.PostForm("password"); password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		patch.Password = string(hashed)
	}

	avatarFile, _, err := c.Request.FormFile("avatar")
	if err == nil {
		defer avatarFile.Close()

		// Old avatar cleanup is best-effort.
		if user.Avatar != nil {
			if err := h.Media.Destroy(ctx, user.Avatar.PublicID); err != nil {
				log.Printf("Failed to delete old avatar %s: %v", user.Avatar.PublicID, err)
			}
		}

		asset, err := h.Media.Upload(ctx, avatarFile, media.AvatarFolder, media.AvatarTransformation)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to upload avatar")
			return
		}
		patch.Avatar = &models.Image{URL: asset.URL, PublicID: asset.PublicID}
	}

	updated, err := h.Users.Update(ctx, userID, patch)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.Posts.ByAuthor(ctx, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	likeCount := 0
	for _, p := range posts {
		likeCount += len(p.Likes)
	}

	commentCount, err := h.Comments.CountByAuthor(ctx, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"postCount":    len(posts),
		"likeCount":    likeCount,
		"commentCount": commentCount,
	})
}

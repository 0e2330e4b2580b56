package handlers

import (
	"log"
	"net/http"
	"time"

	"blogify/models"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRef is the client-supplied reference to an already-uploaded
// asset. Both fields must be present together.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

func (r *ImageRef) complete() bool {
	return r != nil && r.URL != "" && r.PublicID != ""
}

type CreatePostRequest struct {
	Title    string    `json:"title" binding:"required"`
	Content  string    `json:"content" binding:"required"`
	Category string    `json:"category"`
	Image    *ImageRef `json:"image"`
}

type UpdatePostRequest struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Category string    `json:"category"`
	Image    *ImageRef `json:"image"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	if req.Image != nil && !req.Image.complete() {
		fail(c, http.StatusBadRequest, "Image must include url and public_id")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		AuthorID:  userID,
		CreatedAt: time.Now().Unix(),
	}
	if req.Image != nil {
		post.Image = &models.Image{URL: req.Image.URL, PublicID: req.Image.PublicID}
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *Handler) GetAllPosts(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.Posts.All(ctx)
	if err != nil {
		log.Printf("GetAllPosts error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPostByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetMyPosts(c *gin.Context) {
	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.Posts.ByAuthor(ctx, userID)
	if err != nil {
		log.Printf("GetMyPosts error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	if post.AuthorID != userID {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	patch := store.PostPatch{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}

	// Replacing the image removes the old asset from the media host
	// first. A failed removal aborts the update; the record never points
	// at a replaced asset while the old one is still referenced.
	if req.Image.complete() {
		replaced := post.Image != nil && post.Image.PublicID != req.Image.PublicID
		if replaced {
			if err := h.Media.Destroy(ctx, post.Image.PublicID); err != nil {
				log.Printf("UpdatePost: destroy %s failed: %v", post.Image.PublicID, err)
				fail(c, http.StatusInternalServerError, "Failed to remove old image")
				return
			}
		}
		if replaced || post.Image == nil {
			patch.Image = &models.Image{URL: req.Image.URL, PublicID: req.Image.PublicID}
		}
	}

	updated, err := h.Posts.Update(ctx, id, patch)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated",
		"post":    updated,
	})
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	if post.AuthorID != userID {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	// Media cleanup is best-effort: a stranded asset beats a post that
	// can't be deleted.
	if post.Image != nil {
		if err := h.Media.Destroy(ctx, post.Image.PublicID); err != nil {
			log.Printf("DeletePost: destroy %s failed: %v", post.Image.PublicID, err)
		}
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *Handler) LikePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	count, err := h.Posts.AddLike(ctx, id, userID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			fail(c, http.StatusNotFound, "Post not found")
		case store.ErrAlreadyLiked:
			fail(c, http.StatusBadRequest, "You already liked this post")
		default:
			fail(c, http.StatusInternalServerError, "Failed to like post")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Post liked successfully",
		"likesCount": count,
	})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	count, err := h.Posts.RemoveLike(ctx, id, userID)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Post not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to unlike post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Post unliked successfully",
		"likesCount": count,
	})
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"blogify/models"
	"blogify/realtime"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateCommentRequest struct {
	PostID        string `json:"postId" binding:"required"`
	Content       string `json:"content" binding:"required"`
	ParentComment string `json:"parentComment"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) AddComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Content is required")
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	userID, identity, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	now := time.Now().Unix()
	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  userID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.ParentComment != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentComment)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid parent comment ID")
			return
		}
		comment.ParentComment = &parentID
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		log.Printf("AddComment error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	comment.Author = &models.Author{ID: userID, Name: identity.Name, Email: identity.Email}

	h.Events.Publish(postID.Hex(), realtime.Event{
		Type:    realtime.EventNewComment,
		Payload: comment,
	})

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) GetCommentsByPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	comments, err := h.Comments.ByPost(ctx, postID)
	if err != nil {
		log.Printf("GetCommentsByPost error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	var req UpdateCommentRequest
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

	comment, err := h.Comments.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	if comment.AuthorID != userID {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	// Empty content keeps the previous text.
	content := req.Content
	if content == "" {
		content = comment.Content
	}

	updated, err := h.Comments.UpdateContent(ctx, id, content)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	h.Events.Publish(updated.PostID.Hex(), realtime.Event{
		Type: realtime.EventUpdateComment,
		Payload: gin.H{
			"id":      updated.ID.Hex(),
			"content": updated.Content,
		},
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated",
		"comment": updated,
	})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	comment, err := h.Comments.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	if comment.AuthorID != userID {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	h.Events.Publish(comment.PostID.Hex(), realtime.Event{
		Type:    realtime.EventDeleteComment,
		Payload: gin.H{"id": comment.ID.Hex()},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (h *Handler) ToggleCommentLike(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	userID, _, ok := actingUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	comment, err := h.Comments.ByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to fetch comment")
		return
	}

	liked, count, err := h.Comments.ToggleLike(ctx, id, userID)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to toggle like")
		return
	}

	h.Events.Publish(comment.PostID.Hex(), realtime.Event{
		Type: realtime.EventUpdateLikes,
		Payload: gin.H{
			"commentId":  comment.ID.Hex(),
			"likesCount": count,
		},
	})

	message := "Unliked comment"
	if liked {
		message = "Liked comment"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"likes":   count,
	})
}

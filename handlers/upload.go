package handlers

import (
	"log"
	"net/http"

	"blogify/media"

	"github.com/gin-gonic/gin"
)

type DeleteUploadRequest struct {
	PublicID string `json:"public_id" binding:"required"`
}

// UploadImage pushes a multipart image to the media host and returns
// the reference clients attach to posts.
func (h *Handler) UploadImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "No image file provided",
			"url":       "",
			"public_id": "",
		})
		return
	}
	defer file.Close()

	ctx, cancel := requestContext()
	defer cancel()

	asset, err := h.Media.Upload(ctx, file, media.PostFolder, media.PostTransformation)
	if err != nil {
		log.Printf("UploadImage error: %v", err)
		fail(c, http.StatusInternalServerError, "Image upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image uploaded successfully",
		"url":       asset.URL,
		"public_id": asset.PublicID,
	})
}

func (h *Handler) DeleteUpload(c *gin.Context) {
	var req DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "public_id is required")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.Media.Destroy(ctx, req.PublicID); err != nil {
		log.Printf("DeleteUpload error: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image deleted successfully",
		"public_id": req.PublicID,
	})
}

package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"blogify/auth"
	"blogify/models"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func newVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	token, err := newVerificationToken()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate verification token")
		return
	}

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hashed),
		Verified:          false,
		VerificationToken: token,
		CreatedAt:         time.Now().Unix(),
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if err == store.ErrDuplicateEmail {
			fail(c, http.StatusBadRequest, "Email already registered")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	verifyURL := fmt.Sprintf("%s/api/verify/%s", h.BackendURL, token)
	subject := "Verify your Blogify account"
	body := fmt.Sprintf(`<div style="font-family:Arial;padding:20px;">
  <h2>Hello, %s</h2>
  <p>Thanks for signing up for <b>Blogify</b>!</p>
  <p>Please verify your email by clicking the link below:</p>
  <a href="%s">Verify Email</a>
</div>`, req.Name, verifyURL)

	// The user record persists even when delivery fails; signup can be
	// retried through a fresh verification mail, not a fresh account.
	if err := h.Mail.Send(req.Email, subject, body); err != nil {
		log.Printf("Verification mail to %s failed: %v", req.Email, err)
		fail(c, http.StatusInternalServerError, "Email could not be sent")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Signup successful! Please check your email to verify your account.",
	})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		fail(c, http.StatusBadRequest, "Invalid verification link")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.ByVerificationToken(ctx, token)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}

	if err := h.Users.MarkVerified(ctx, user.ID); err != nil {
		fail(c, http.StatusInternalServerError, "Server error during verification")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Email verified successfully! You can now log in.",
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.ByEmail(ctx, req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			fail(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !user.Verified {
		fail(c, http.StatusUnauthorized, "Please verify your email before logging in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		fail(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.Tokens.Issue(auth.Identity{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"user": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
		},
		"token": token,
	})
}

package routes

import (
	"net/http"
	"time"

	"blogify/auth"
	"blogify/handlers"
	"blogify/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.Handler, tokens *auth.Service) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5500"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Blogify API Running",
			"time":    time.Now().Unix(),
		})
	})

	protect := middleware.RequireAuth(tokens)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/verify/:token", h.VerifyEmail)
	}

	// Verification links in old emails point here.
	router.GET("/api/verify/:token", h.VerifyEmail)

	posts := router.Group("/api/posts")
	{
		posts.GET("", h.GetAllPosts)
		posts.GET("/mine", protect, h.GetMyPosts)
		posts.GET("/:id", h.GetPostByID)

		posts.POST("", protect, h.CreatePost)
		posts.PUT("/:id", protect, h.UpdatePost)
		posts.DELETE("/:id", protect, h.DeletePost)

		posts.PUT("/:id/like", protect, h.LikePost)
		posts.PUT("/:id/unlike", protect, h.UnlikePost)
	}

	comments := router.Group("/api/comments")
	{
		comments.GET("/:postId", h.GetCommentsByPost)

		comments.POST("", protect, h.AddComment)
		comments.PUT("/:id", protect, h.UpdateComment)
		comments.DELETE("/:id", protect, h.DeleteComment)
		comments.PUT("/:id/like", protect, h.ToggleCommentLike)
	}

	users := router.Group("/api/users", protect)
	{
		users.GET("/me", h.GetMyProfile)
		users.PUT("/update", h.UpdateMyProfile)
		users.GET("/stats", h.GetStats)
	}

	upload := router.Group("/api/upload", protect)
	{
		upload.POST("", h.UploadImage)
		upload.DELETE("/delete", h.DeleteUpload)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Route not found",
		})
	})

	return router
}

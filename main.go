package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogify/auth"
	"blogify/config"
	"blogify/database"
	"blogify/handlers"
	"blogify/mailer"
	"blogify/media"
	"blogify/realtime"
	"blogify/routes"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	log.Println("Starting Blogify backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== MONGODB =====
	log.Println("Connecting to MongoDB...")

	var db *mongo.Database
	for i := 1; i <= 3; i++ {
		d, connErr := database.Connect(cfg.MongoURI, cfg.Database)
		if connErr != nil {
			err = connErr
			log.Printf("MongoDB connection attempt %d failed: %v", i, connErr)
			time.Sleep(2 * time.Second)
			continue
		}
		db = d
		err = nil
		break
	}
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	// ===== SERVICES =====
	tokens := auth.NewService(cfg.JWTSecret, auth.TokenTTL)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)

	host, err := media.NewCloudinaryHost(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("Cloudinary configuration error: ", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	h := handlers.New(
		store.NewMongoUserStore(db),
		store.NewMongoPostStore(db),
		store.NewMongoCommentStore(db),
		tokens, mail, host, hub, cfg.BackendURL,
	)

	// ===== ROUTER =====
	router := routes.SetupRouter(h, tokens)
	router.GET("/ws", gin.WrapF(realtime.Handler(hub, tokens)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}

	log.Println("Server stopped gracefully")
}

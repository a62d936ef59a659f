package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/markyai/studio-backend/internal/config"
	"github.com/markyai/studio-backend/internal/database"
	"github.com/markyai/studio-backend/internal/handlers"
	"github.com/markyai/studio-backend/internal/middleware"
	"github.com/markyai/studio-backend/internal/routes"
	"github.com/markyai/studio-backend/internal/services"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()
	handlers.InitConfig(cfg)

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting, gallery cache)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// MongoDB only backs the gallery when selected as the storage backend
	if cfg.StorageBackend == "mongo" {
		log.Printf("Connecting to MongoDB...")
		if err := database.ConnectMongo(cfg.MongoURI); err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo()

		if err := services.EnsureImageIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB image indexes: %v", err)
		} else {
			log.Println("✅ MongoDB image indexes ensured")
		}
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Generated images will be served as data URIs")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Generated images will be served as data URIs")
	}

	// Transactional mail. Always wired; with no API key every send fails
	// with a configuration error instead of a nil mailer.
	handlers.InitMailer(services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail))
	if cfg.SendGridAPIKey == "" {
		log.Println("⚠️  WARNING: SENDGRID_API_KEY not set. Transactional emails will not be sent.")
	} else {
		log.Println("✅ SendGrid mailer initialized")
	}

	// Image generation provider (API key is checked per request)
	generator, err := services.NewImageGenerator(cfg)
	if err != nil {
		log.Fatal("Failed to initialize image generator:", err)
	}
	handlers.InitImageGenerator(generator)
	log.Printf("✅ Image provider: %s", cfg.ImageProvider)

	// Gallery on top of the configured storage backend
	store, err := services.NewImageStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize image store:", err)
	}
	handlers.InitGallery(services.NewGallery(store))
	log.Printf("✅ Image storage backend: %s", cfg.StorageBackend)

	handlers.InitProfileStore(services.NewProfileStore())

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"message": "Marky backend is running",
		})
	})

	// Setup routes
	routes.SetupRoutes(r)

	log.Printf("🚀 Marky backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

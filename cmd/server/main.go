// cmd/server/main.go

package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/Leonucn/Echo-chat/internal/api"
	"github.com/Leonucn/Echo-chat/internal/api/handlers"
	"github.com/Leonucn/Echo-chat/internal/assets"
	"github.com/Leonucn/Echo-chat/internal/completion"
	"github.com/Leonucn/Echo-chat/internal/config"
	"github.com/Leonucn/Echo-chat/internal/database"
	"github.com/Leonucn/Echo-chat/internal/realtime"
	"github.com/Leonucn/Echo-chat/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	hub := realtime.NewHub(realtime.NewPresence(rdb))
	groq := completion.NewClient(cfg.GroqAPIKey, cfg.GroqModel)

	var uploader assets.Uploader
	if cfg.UploadURL != "" {
		uploader = assets.NewHTTPUploader(cfg.UploadURL, cfg.UploadPreset)
	}

	userService := services.NewUserService(db, uploader)
	chatbotService := services.NewChatbotService(db, uploader)
	messageService := services.NewMessageService(db, chatbotService, groq, hub, uploader)

	r := mux.NewRouter()
	api.SetupRoutes(r, api.Handlers{
		Auth:    handlers.NewAuthHandler(userService, cfg),
		Chatbot: handlers.NewChatbotHandler(chatbotService),
		Message: handlers.NewMessageHandler(messageService),
		WS:      handlers.NewWSHandler(hub),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	log.Printf("Server starting on %s", cfg.ServerAddress)
	log.Fatal(http.ListenAndServe(cfg.ServerAddress, c.Handler(r)))
}

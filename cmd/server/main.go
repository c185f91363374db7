package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/ollama-chat-api/internal/config"
	"github.com/iliyamo/ollama-chat-api/internal/database"
	"github.com/iliyamo/ollama-chat-api/internal/handler"
	"github.com/iliyamo/ollama-chat-api/internal/middleware"
	"github.com/iliyamo/ollama-chat-api/internal/ollama"
	"github.com/iliyamo/ollama-chat-api/internal/queue"
	"github.com/iliyamo/ollama-chat-api/internal/repository"
	"github.com/iliyamo/ollama-chat-api/internal/router"
)

func main() {
	// Load .env before config so local development works without
	// exporting variables. Missing file is fine in production.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if cfg.IsDevelopment() {
		log.Printf("running in development mode: resetting schema and seeding guest data")
		if err := database.BootstrapDev(ctx, db); err != nil {
			log.Fatalf("dev bootstrap: %v", err)
		}
	} else {
		if err := database.CreateTables(ctx, db); err != nil {
			log.Fatalf("create tables: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and response caching disabled")
	}

	// Background consumer for chat.completed audit events. Runs its own
	// reconnect loop forever.
	go func() { _ = queue.StartChatConsumer() }()

	users := repository.NewUserRepo(db)
	assistants := repository.NewAssistantRepo(db)
	conversations := repository.NewConversationRepo(db)
	messages := repository.NewMessageRepo(db)
	llm := ollama.New(cfg.OllamaURL)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	// CORS mirrors the frontend contract: wide open in development,
	// pinned to the configured frontend origin in production.
	origins := []string{"*"}
	if cfg.IsProduction() {
		origins = []string{cfg.FrontendURL}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	mw := router.Middlewares{
		Auth:      middleware.Auth(cfg.SecretKey, cfg.Algorithm, users),
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.Cache(config.LoadCacheConfig(), rdb),
	}
	router.Register(e,
		handler.NewAuthHandler(cfg, users),
		handler.NewAssistantHandler(assistants),
		handler.NewConversationHandler(conversations, messages, assistants),
		handler.NewChatHandler(conversations, messages, llm),
		mw,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Environment)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/config"
	"github.com/gamevideogen/api/internal/handler"
	"github.com/gamevideogen/api/internal/middleware"
	"github.com/gamevideogen/api/internal/service"
	"github.com/gamevideogen/api/internal/store"
	ws "github.com/gamevideogen/api/internal/websocket"
	"github.com/gamevideogen/api/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client (rate limiting only; task state is in-process)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize external clients
	openaiClient := client.NewOpenAIClient(&cfg.OpenAI)
	falClient := client.NewFalClient(&cfg.Fal)
	if !openaiClient.IsConfigured() {
		log.Println("Info: OpenAI not configured, using mock script generation")
	}
	if !falClient.IsConfigured() {
		log.Println("Info: FAL not configured, using mock video generation")
	}

	// Initialize task store
	taskStore := store.NewTaskStore(time.Duration(cfg.Tasks.TTLMinutes) * time.Minute)

	// Initialize services and worker
	scriptService := service.NewScriptService(openaiClient)
	videoWorker := worker.NewVideoWorker(taskStore, scriptService, falClient, hub)
	videoService := service.NewVideoService(taskStore, videoWorker)

	// Initialize handlers
	scriptHandler := handler.NewScriptHandler(scriptService, validate)
	videoHandler := handler.NewVideoHandler(videoService, validate)

	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"openai": openaiClient.IsConfigured(),
				"fal":    falClient.IsConfigured(),
			},
			"tasks": taskStore.Len(),
		})
	})

	// API routes
	api := app.Group("/api")

	script := api.Group("/script", rateLimiter.ScriptLimit(cfg.RateLimit.ScriptPerMin))
	script.Post("/generate", scriptHandler.Generate)

	video := api.Group("/video")
	video.Post("/generate", rateLimiter.VideoLimit(cfg.RateLimit.VideoPerHour), videoHandler.Generate)
	video.Get("/status", videoHandler.Status)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/tasks/:taskId", websocket.New(func(c *websocket.Conn) {
		taskID := c.Params("taskId")
		hub.HandleConnection(c, taskID)
	}))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}

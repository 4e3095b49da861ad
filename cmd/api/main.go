package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commercekit/storefront/internal/auth"
	"github.com/commercekit/storefront/internal/cache"
	"github.com/commercekit/storefront/internal/config"
	"github.com/commercekit/storefront/internal/handlers"
	"github.com/commercekit/storefront/internal/messaging"
	"github.com/commercekit/storefront/internal/notification"
	"github.com/commercekit/storefront/internal/repository"
	"github.com/commercekit/storefront/internal/service"
)

func main() {
	initLogger()
	slog.Info("🚀 Storefront API starting...")

	cfg := config.Load()

	db, err := initPostgres(cfg.Postgres)
	if err != nil {
		log.Fatalf("Postgres connection error: %v", err)
	}
	defer db.Close()

	mongoDB, mongoClient, err := initMongo(cfg.Mongo)
	if err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	rabbitClient := messaging.NewRabbitMQClient(messaging.NewRabbitMQConfig())
	if err := rabbitClient.Connect(); err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rabbitClient.Close()

	// Dependency injection
	publisher := messaging.NewPublisher(rabbitClient)
	consumer := messaging.NewConsumer(rabbitClient, "storefront-mail-queue", "storefront-api")
	notifier := notification.NewAMQPNotifier(publisher)
	catalogCache := cache.NewRedisCache(cfg.Redis.Addr, "storefront")
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(mongoDB, cfg.LegacyStockUpdates)

	if err := ensureSchemas(userRepo, orderRepo); err != nil {
		log.Fatalf("Schema bootstrap error: %v", err)
	}

	userService := service.NewUserService(userRepo, tokens, notifier)
	productService := service.NewProductService(productRepo, catalogCache, cfg.CacheTTL)
	orderService := service.NewOrderService(productRepo, orderRepo, userRepo, notifier)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := setupFiberApp()
	setupRoutes(app, tokens, userRepo, userHandler, productHandler, orderHandler)

	// Mail delivery worker
	sender := notification.NewSMTPSender(cfg.SMTP)
	if err := notification.StartWorker(consumer, sender); err != nil {
		slog.Error("mail worker start failed", "error", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("🛑 Storefront API closing...")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("🌍 Storefront API listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func initLogger() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func initPostgres(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	slog.Info("✅ Postgres connected", "database", cfg.DBName)
	return db, nil
}

func initMongo(cfg config.MongoConfig) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	slog.Info("✅ MongoDB connected", "database", cfg.Database)
	return client.Database(cfg.Database), client, nil
}

func ensureSchemas(userRepo *repository.UserRepository, orderRepo *repository.OrderRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := userRepo.EnsureSchema(ctx); err != nil {
		return err
	}
	return orderRepo.EnsureSchema(ctx)
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Storefront API v1.0",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,x-auth-token,X-Request-ID",
	}))

	return app
}

func setupRoutes(
	app *fiber.App,
	tokens *auth.TokenManager,
	userRepo *repository.UserRepository,
	userHandler *handlers.UserHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
) {
	requireAuth := auth.RequireAuth(tokens)
	requireSeller := auth.RequireSeller(userRepo)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "storefront-api", "status": "healthy"})
	})

	users := api.Group("/users")
	users.Post("/", userHandler.Register)
	users.Get("/me", requireAuth, userHandler.GetMe)
	users.Put("/update", requireAuth, userHandler.Update)
	users.Get("/seller", requireAuth, userHandler.RequestSeller)
	users.Put("/confirmation/:email", requireAuth, userHandler.ConfirmSeller)
	users.Delete("/delete", requireAuth, userHandler.Delete)

	products := api.Group("/products")
	products.Post("/new", requireAuth, requireSeller, productHandler.CreateProduct)
	products.Get("/search", productHandler.SearchByName)
	products.Get("/allByCat", productHandler.GetByCategory)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/update/:id", requireAuth, requireSeller, productHandler.UpdateProduct)
	products.Delete("/delete/:id", requireAuth, requireSeller, productHandler.DeleteProduct)

	orders := api.Group("/orders")
	orders.Post("/new", requireAuth, orderHandler.CreateOrder)
	orders.Get("/arrived/:id", requireAuth, orderHandler.ArrivedOrder)
	orders.Put("/confirmation/:id", requireAuth, orderHandler.ConfirmOrder)
	orders.Delete("/delete/:id", requireAuth, orderHandler.DeleteOrder)
	orders.Get("/:id", requireAuth, orderHandler.GetOrder)

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

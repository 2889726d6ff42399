package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/api/handlers"
	"github.com/contentflow/contentflow-api/internal/api/middleware"
	job "github.com/contentflow/contentflow-api/internal/jobs"
	"github.com/contentflow/contentflow-api/internal/platform"
	"github.com/contentflow/contentflow-api/internal/queue"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	httpClient := &http.Client{Timeout: 30 * time.Second}

	registry := platform.NewRegistry(
		platform.NewLinkedin(httpClient),
		platform.NewTwitter(httpClient),
		platform.NewFacebook(httpClient),
		platform.NewInstagram(httpClient),
	)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewScheduledPostRepository(db)
	executionRepo := repository.NewPostExecutionRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, profileRepo)
	r2Service := service.NewR2Service(*cfg)
	assetService := service.NewAssetService(mediaAssetRepo, r2Service)
	postService := service.NewPostService(postRepo, executionRepo)
	dispatchService := service.NewDispatchService(*cfg, registry, postRepo, socialAccountRepo, executionRepo)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo)
	connectService := service.NewConnectService(*cfg, httpClient, socialAccountRepo)
	subscriptionService := service.NewSubscriptionService(*cfg, subscriptionRepo, profileRepo)
	billingService := service.NewBillingService(*cfg, httpClient, subscriptionRepo, profileRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	platformH := handlers.NewPlatformHandler(platformService, connectService, *cfg)
	app.Get("/auth/:platform", platformH.AddSocialAccount)
	app.Get("/auth/:platform/callback", platformH.CallbackHandler)

	webhook := handlers.NewWebhookHandler(subscriptionService)
	app.Post("/webhooks/paddle", webhook.PaddleWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/auth/state", auth.ConnectState)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Get("/user/profile", user.GetProfile)

	post := handlers.NewPostHandler(postService, dispatchService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/dispatch", post.DispatchPost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id/executions", post.ListExecutions)
	api.Post("/posts/cancel", post.CancelPost)
	api.Post("/posts/remove", post.RemovePost)

	asset := handlers.NewAssetHandler(assetService)
	api.Post("/assets/upload", asset.UploadAsset)
	api.Get("/assets", asset.ListAssets)

	api.Get("/accounts", platformH.ListSocialAccounts)
	api.Post("/accounts/remove", platformH.DisconnectSocialAccount)

	billing := handlers.NewBillingHandler(billingService)
	api.Post("/billing/checkout", billing.CreateCheckout)
	api.Post("/billing/cancel", billing.CancelSubscription)
	api.Get("/billing/portal", billing.PortalSession)
	api.Get("/billing/subscription", billing.GetSubscription)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(*cfg, socialAccountRepo, registry)

	// queue
	queueW := queue.NewWorker(postRepo, dispatchService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDispatchPost, queueW.HandleDispatchPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}

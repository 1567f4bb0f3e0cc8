package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"startupmarket/internal/adapter/api"
	"startupmarket/internal/adapter/api/handler"
	apimiddleware "startupmarket/internal/adapter/api/middleware"
	"startupmarket/internal/adapter/api/router"
	"startupmarket/internal/adapter/repository"
	"startupmarket/internal/domain/entity"
	domainrepo "startupmarket/internal/domain/repository"
	"startupmarket/internal/domain/service"
	"startupmarket/internal/infrastructure/database"
	"startupmarket/internal/infrastructure/firebase"
	"startupmarket/internal/infrastructure/messaging"
	"startupmarket/internal/infrastructure/ratelimit"
	"startupmarket/internal/infrastructure/websocket"
	"startupmarket/internal/usecase"
	"startupmarket/pkg/config"
	"startupmarket/pkg/logger"
)

type repositories struct {
	offers     domainrepo.OfferRepository
	products   domainrepo.ProductRepository
	users      domainrepo.UserRepository
	favorites  domainrepo.FavoriteRepository
	categories domainrepo.CategoryRepository
	close      func()
}

func main() {
	if err := run(); err != nil {
		logger.Error("Server exited: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(logger.Config{Environment: cfg.Environment, Level: cfg.LogLevel})
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	firebaseApp, err := firebase.NewApp(ctx, cfg.FirebaseProject, cfg.FirebaseServiceAccountJSON, cfg.FirebaseServiceAccountPath)
	if err != nil {
		return err
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}
	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	repos, err := openRepositories(ctx, cfg, firebaseApp)
	if err != nil {
		return err
	}
	defer repos.close()

	if err := repos.categories.Seed(ctx, entity.DefaultCategories()); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	notifiers := []service.OfferNotifier{wsManager}
	if cfg.NatsURL != "" {
		natsConn, err := messaging.Connect(cfg.NatsURL)
		if err != nil {
			return err
		}
		defer natsConn.Drain()

		notifiers = append(notifiers, messaging.NewOfferEventPublisher(natsConn, cfg.NatsSubjectPrefix))
		logger.Info("Publishing offer events to NATS at %s", cfg.NatsURL)
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	offerUseCase := usecase.NewOfferUseCase(repos.offers, repos.products, repos.users, service.NewMultiNotifier(notifiers...))
	favoriteUseCase := usecase.NewFavoriteUseCase(repos.favorites, repos.products)
	productUseCase := usecase.NewProductUseCase(repos.products, repos.users, repos.categories)
	userUseCase := usecase.NewUserUseCase(repos.users)

	handler.Setup(handler.Dependencies{
		OfferUseCase:    offerUseCase,
		FavoriteUseCase: favoriteUseCase,
		ProductUseCase:  productUseCase,
		UserUseCase:     userUseCase,
		WSManager:       wsManager,
		AllowedOrigins:  cfg.CORSAllowOrigins,
		StorageDriver:   cfg.StorageDriver,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.L().Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	router.Setup(e, authMiddleware, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s (storage: %s)", cfg.ServerPort, cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, app *fbapp.App) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		return &repositories{
			offers:    repository.NewFirestoreOfferRepository(client),
			products:  repository.NewFirestoreProductRepository(client),
			users:     repository.NewFirestoreUserRepository(client),
			favorites: repository.NewFirestoreFavoriteRepository(client),
			close:     closeFirestore(client),
		}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.PostgresDSN, cfg.PostgresMaxOpenConns, cfg.PostgresMaxIdleConns)
		if err != nil {
			return nil, err
		}
		if err := database.InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			offers:    repository.NewPostgresOfferRepository(db),
			products:  repository.NewPostgresProductRepository(db),
			users:     repository.NewPostgresUserRepository(db),
			favorites: repository.NewPostgresFavoriteRepository(db),
			close:     func() { db.Close() },
		}, nil

	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return &repositories{
			offers:    repository.NewMemoryOfferRepository(),
			products:  repository.NewMemoryProductRepository(),
			users:     repository.NewMemoryUserRepository(),
			favorites: repository.NewMemoryFavoriteRepository(),
			close:     func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func closeFirestore(client *firestore.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Firestore client: %v", err)
		}
	}
}

func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		limiter := ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
		limiter.StartCleanupRoutine(ctx)
		return limiter, func() {}, nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis rate limiter at %s", cfg.RedisAddr)

	return ratelimit.NewRedisLimiter(client, cfg.RateLimitPerMinute), func() { client.Close() }, nil
}

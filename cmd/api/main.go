package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/alluringfresh/alluring-backend/api/routes"
	authsvc "github.com/alluringfresh/alluring-backend/internal/auth"
	cartsvc "github.com/alluringfresh/alluring-backend/internal/cart"
	checkoutsvc "github.com/alluringfresh/alluring-backend/internal/checkout"
	favoritesvc "github.com/alluringfresh/alluring-backend/internal/favorites"
	mediasvc "github.com/alluringfresh/alluring-backend/internal/media"
	ordersvc "github.com/alluringfresh/alluring-backend/internal/orders"
	productsvc "github.com/alluringfresh/alluring-backend/internal/products"
	profilesvc "github.com/alluringfresh/alluring-backend/internal/profiles"
	reviewsvc "github.com/alluringfresh/alluring-backend/internal/reviews"
	usersvc "github.com/alluringfresh/alluring-backend/internal/users"
	"github.com/alluringfresh/alluring-backend/pkg/auth/session"
	"github.com/alluringfresh/alluring-backend/pkg/config"
	"github.com/alluringfresh/alluring-backend/pkg/db"
	"github.com/alluringfresh/alluring-backend/pkg/logger"
	"github.com/alluringfresh/alluring-backend/pkg/metrics"
	"github.com/alluringfresh/alluring-backend/pkg/migrate"
	"github.com/alluringfresh/alluring-backend/pkg/redis"
	"github.com/alluringfresh/alluring-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	shippingFee, err := decimal.NewFromString(cfg.Cart.ShippingFee)
	if err != nil {
		logg.Error(context.Background(), "invalid shipping fee", err)
		os.Exit(1)
	}

	userRepo := usersvc.NewRepository(dbClient.DB())
	profileRepo := profilesvc.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())
	favoriteRepo := favoritesvc.NewRepository(dbClient.DB())
	reviewRepo := reviewsvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	var mediaService mediasvc.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, gcsErr := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if gcsErr != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", gcsErr)
			os.Exit(1)
		}
		mediaService, gcsErr = mediasvc.NewService(mediasvc.ServiceParams{
			Store: gcsClient,
			GCS:   cfg.GCS,
			Media: cfg.Media,
		})
		if gcsErr != nil {
			logg.Error(context.Background(), "failed to create media service", gcsErr)
			os.Exit(1)
		}
		logg.Info(logg.WithField(context.Background(), "bucket", gcsClient.DefaultBucket()), "media uploads enabled")
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, media uploads disabled")
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		ProductRepo: productRepo,
		Images:      mediaService,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewRedisStore(redisClient, cfg.Cart.SnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:       cartStore,
		Catalog:     productRepo,
		ShippingFee: shippingFee,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:          dbClient,
		CartStore:   cartStore,
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		ProfileRepo: profileRepo,
		ShippingFee: shippingFee,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{OrderRepo: orderRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	favoriteService, err := favoritesvc.NewService(favoritesvc.ServiceParams{
		FavoriteRepo: favoriteRepo,
		Catalog:      productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	profileService, err := profilesvc.NewService(profilesvc.ServiceParams{ProfileRepo: profileRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	reviewService, err := reviewsvc.NewService(reviewsvc.ServiceParams{
		ReviewRepo: reviewRepo,
		Catalog:    productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			HTTPMetrics:     httpMetrics,
			AuthService:     authService,
			RegisterService: registerService,
			ProductService:  productService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrderService:    orderService,
			FavoriteService: favoriteService,
			ProfileService:  profileService,
			ReviewService:   reviewService,
			MediaService:    mediaService,
			UserRepo:        userRepo,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

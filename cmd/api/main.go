package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/httpserver"
	"storefront-api/internal/metrics"
	"storefront-api/internal/payment"
	"storefront-api/internal/realtime"
	cartrepo "storefront-api/internal/repository/cart"
	catalogrepo "storefront-api/internal/repository/catalog"
	chatrepo "storefront-api/internal/repository/chat"
	orderrepo "storefront-api/internal/repository/order"
	profilerepo "storefront-api/internal/repository/profile"
	tokenrepo "storefront-api/internal/repository/token"
	userrepo "storefront-api/internal/repository/user"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	"storefront-api/internal/service/checkout"
	chatsvc "storefront-api/internal/service/chat"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	cartCounts := cache.NewRedisCartCounts(redisClient)
	bus := realtime.NewRedisBus(redisClient, realtime.MessagesChannel)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	chatRepo := chatrepo.NewPostgres(dbpool)
	profileRepo := profilerepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	cartService := cartsvc.New(cartRepo, cartCounts, logger)
	chatService := chatsvc.New(chatRepo, bus, logger)

	chatHub := chatsvc.NewHub(logger)
	go chatHub.Run(ctx, bus.Listen(ctx))

	paymentClient := payment.NewHTTPClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, logger)
	checkoutMetrics := metrics.NewCheckout(nil)
	coordinator := checkout.NewCoordinator(orderRepo, paymentClient, cartCounts, checkoutMetrics, logger, cfg.SubmitTimeout)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CatalogRepo: catalogRepo,
		CartSvc:     cartService,
		Checkout:    coordinator,
		OrderRepo:   orderRepo,
		ChatSvc:     chatService,
		ChatHub:     chatHub,
		ProfileRepo: profileRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trade-service/internal/config"
	"trade-service/internal/db"
	grpcserver "trade-service/internal/grpc"
	"trade-service/internal/handlers"
	"trade-service/internal/middleware"
	"trade-service/internal/observability"
	"trade-service/internal/presence"
	"trade-service/internal/rabbitmq"
	"trade-service/internal/repositories"
	"trade-service/internal/services"
	"trade-service/internal/telemetry"
	"trade-service/internal/ws"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP, websocket and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), config.Load())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s reason=%q", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, cfg.ServiceName, cfg.Environment)

	userRepo, err := repositories.NewCachedUserRepo(repositories.NewUserRepo(database, cfg.StoreTimeout), cfg.UserCacheSize, cfg.UserCacheTTL)
	if err != nil {
		return err
	}
	itemRepo := repositories.NewItemRepo(database, cfg.StoreTimeout)
	tradeRepo := repositories.NewTradeRepo(database, cfg.StoreTimeout)
	notificationRepo := repositories.NewNotificationRepo(database, cfg.StoreTimeout)
	messageRepo := repositories.NewMessageRepo(database, cfg.StoreTimeout)

	registry := presence.NewRegistry()
	notificationSvc := services.NewNotificationService(notificationRepo, userRepo, registry)
	messageSvc := services.NewMessageService(messageRepo, userRepo, registry, publisher)
	tradeSvc := services.NewTradeService(tradeRepo, itemRepo, userRepo, notificationSvc, publisher)
	partnerSvc := services.NewPartnerService(userRepo, notificationSvc, publisher)
	itemSvc := services.NewItemService(itemRepo)

	validator := middleware.NewJWTValidator(cfg.JWTSecret)
	router := newRouter(routes{
		serviceName:   cfg.ServiceName,
		auth:          middleware.AuthMiddleware(validator),
		trades:        handlers.NewTradeHandler(tradeSvc, notificationSvc, audit),
		messages:      handlers.NewMessageHandler(messageSvc),
		notifications: handlers.NewNotificationHandler(notificationSvc, partnerSvc, audit),
		items:         handlers.NewItemHandler(itemSvc),
		ws:            ws.NewHandler(registry, messageSvc, validator),
		ping:          database.PingContext,
		audit:         audit,
		debugRoutes:   cfg.DebugRoutes,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcserver.NewServer()
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("http listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Printf("grpc listening on %s", lis.Addr())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("shutting down")
		grpcServer.SetServing("", false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.Stop()
		return err
	})

	grpcServer.SetServing("", true)
	return g.Wait()
}

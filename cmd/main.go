package main

import (
	"context"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/topbid/auction-api/internal/auction/application"
	auctionhttp "github.com/topbid/auction-api/internal/auction/infra/http"
	"github.com/topbid/auction-api/internal/auction/infra/messaging"
	"github.com/topbid/auction-api/internal/auction/infra/repository/postgres"
	"github.com/topbid/auction-api/internal/auction/infra/sweep"
	auctionws "github.com/topbid/auction-api/internal/auction/infra/websocket"
	"github.com/topbid/auction-api/internal/shared/clock"
	"github.com/topbid/auction-api/internal/shared/db"
	"github.com/topbid/auction-api/internal/shared/db/migrations"
	"github.com/topbid/auction-api/internal/shared/httpserver"
	"github.com/topbid/auction-api/internal/shared/logger"
	sharedws "github.com/topbid/auction-api/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auction API server...")

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.GetPostgresDBPool(ctx)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	natsConn, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatal("NATS connection failed", zap.Error(err))
	}
	defer natsConn.Close()
	log.Info("Connected to NATS", zap.String("url", natsURL))

	hub := sharedws.NewHub()
	go hub.Run(ctx)

	repo := postgres.NewAuctionRepository(pool)
	publisher := messaging.NewCompositePublisher(
		messaging.NewNatsAuctionEventPublisher(natsConn),
		auctionws.NewBroadcaster(hub),
	)
	clk := clock.System()

	service := application.NewAuctionService(
		application.NewCreateAuctionUseCase(repo, publisher, clk),
		application.NewPlaceBetUseCase(repo, publisher, clk),
		application.NewSweepUseCase(repo, publisher, clk),
		application.NewGetAuctionUseCase(repo),
	)

	sweepInterval := 5 * time.Second
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		parsed, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			log.Fatal("Invalid SWEEP_INTERVAL", zap.String("value", raw), zap.Error(parseErr))
		}
		sweepInterval = parsed
	}
	sweeper := sweep.NewSweeper(service, sweepInterval)
	go sweeper.Run(ctx)

	server := httpserver.NewServer()
	auctionhttp.NewHandler(service).Register(server.App())
	auctionws.NewHandler(hub, service).Register(server.App())

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":9000"
	}
	if err := server.Start(addr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}

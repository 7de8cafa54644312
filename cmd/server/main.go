// Package main starts the auction HTTP server.
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mlisowski/auctionhouse-backend/internal/adapter/repository/postgres"
	"github.com/mlisowski/auctionhouse-backend/internal/adapter/rest"
	"github.com/mlisowski/auctionhouse-backend/internal/config"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/auctiondetails"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/placingbid"
	"github.com/mlisowski/auctionhouse-backend/internal/usecase/withdrawingbids"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Setup Database (opens the pool and runs migrations)
	db, err := postgres.NewDB(ctx, cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer db.Close()

	// 2. Initialize Unit of Work (Postgres)
	uow := postgres.NewUnitOfWork(db)

	// 3. Initialize Services (Use Cases)
	placeBidService := placingbid.NewPlaceBidService(uow)
	withdrawBidsService := withdrawingbids.NewWithdrawBidsService(uow)
	detailsService := auctiondetails.NewAuctionDetailsService(uow)

	// 4. Start HTTP Server
	handler := rest.NewHandler(placeBidService, withdrawBidsService, detailsService, logger, cfg.AdminToken)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: handler.SetupRouter(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting auction server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

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

	"menuboard/internal/catalog"
	"menuboard/internal/config"
	"menuboard/internal/listener"
	"menuboard/internal/logging"
	"menuboard/internal/menu"
	"menuboard/internal/server"
	"menuboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logger, err := logging.New(cfg.LogLevel, false)
	must(err)
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	menus := menu.NewService(catalog.NewClient(cfg, logger), menu.NewBuilderFromConfig(cfg), logger)
	syncer := catalog.NewSyncService(db, menus, logger)
	refresher := listener.NewService(syncer, time.Duration(cfg.RefreshIntervalSec)*time.Second, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.NewRouter(cfg, server.NewHandler(menus, syncer, cfg.HideOutOfStock, logger)),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refresher.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("menu api listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})

	must(g.Wait())
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

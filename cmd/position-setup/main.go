package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/Cheese-PositionSetup/internal/clipboard"
	appcfg "github.com/park285/Cheese-PositionSetup/internal/config"
	"github.com/park285/Cheese-PositionSetup/internal/httpapi"
	"github.com/park285/Cheese-PositionSetup/internal/library"
	"github.com/park285/Cheese-PositionSetup/internal/msgcat"
	"github.com/park285/Cheese-PositionSetup/internal/obslog"
	"github.com/park285/Cheese-PositionSetup/internal/render"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.Named("main")
	defer func() { _ = obslog.L().Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("message catalog error", zap.Error(err))
	}

	// Clipboard: Redis when configured (one key per session), else a single process clipboard
	var clipFor func(string) clipboard.Clipboard
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := clipboard.ParseRedisURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis url error", zap.Error(err))
		}
		rdb = redis.NewClient(opt)
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			cancel()
			logger.Fatal("redis ping error", zap.Error(err))
		}
		cancel()
		base := clipboard.NewRedis(rdb, "", time.Duration(cfg.ClipboardTTLSec)*time.Second)
		clipFor = func(id string) clipboard.Clipboard { return base.ForOwner(id) }
	} else {
		mem := clipboard.NewMemory()
		clipFor = func(string) clipboard.Clipboard { return mem }
	}

	// Library: postgres when configured, else in-memory
	var repo library.Repository
	var pg *library.Postgres
	if cfg.DatabaseURL != "" {
		pg, err = library.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("library repo init error", zap.Error(err))
		}
		repo = pg
	} else {
		repo = library.NewMemoryRepository()
		logger.Info("DATABASE_URL not set, saved positions are kept in memory")
	}

	sessions := httpapi.NewManager(httpapi.ManagerOptions{
		Limit:      cfg.SessionLimit,
		IdleTTL:    time.Duration(cfg.SessionIdleSec) * time.Second,
		InitialFEN: cfg.InitialFEN,
		Catalog:    cat,
		Logger:     obslog.Named("setup"),
		Clipboard:  clipFor,
	})
	handler := httpapi.NewHandler(sessions, render.NewSVGBoardRenderer(cfg.RenderSquareSize),
		httpapi.WithLibrary(repo),
		httpapi.WithImageDir(cfg.ImageDir),
		httpapi.WithListLimit(cfg.LibraryListLimit),
		httpapi.WithLogger(obslog.Named("http")),
	)

	srv := &fasthttp.Server{
		Handler:            handler.Handle,
		Name:               "position-setup",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 64 << 10,
	}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(sctx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pg.Close()
}

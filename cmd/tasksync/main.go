package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/tasksync/db"
	"github.com/monocle-dev/tasksync/internal/auth"
	"github.com/monocle-dev/tasksync/internal/config"
	"github.com/monocle-dev/tasksync/internal/repository"
	"github.com/monocle-dev/tasksync/internal/router"
	"github.com/monocle-dev/tasksync/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	gdb, err := db.Connect(cfg)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret,
		auth.WithTTL(cfg.TokenTTL),
		auth.WithFormat(auth.TokenFormat(cfg.TokenFormat)),
	)

	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	repo := repository.New(gdb)

	r := router.NewRouter(router.Deps{
		Repo:     repo,
		Accounts: services.NewAccountService(repo, tokens),
		Sync:     services.NewSyncService(repo),
		Tokens:   tokens,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on :%s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

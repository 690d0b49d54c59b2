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
	"github.com/spf13/cobra"

	"guesthouse-backend/config"
	"guesthouse-backend/controllers"
	"guesthouse-backend/routes"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gin.SetMode(cfg.GinMode)
			controllers.DefaultLanguage = cfg.DefaultLanguage

			// Connect database (config.ConnectDatabase sets config.DB)
			if err := config.ConnectDatabase(cfg); err != nil {
				return err
			}
			db := config.DB
			log.Printf("✅ Database connection established (%s), weekend nights: %s", cfg.DBDriver, cfg.Weekend)

			router := routes.SetupRouter(routes.NewHandlers(db, cfg.Weekend), cfg.CORSOrigins)

			addr := ":" + cfg.Port
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadTimeout:       10 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      20 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("🚀 Server starting on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Wait for interrupt signal to gracefully shutdown the server with timeout
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}
			log.Println("⚠️  Shutdown signal received, shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			log.Println("✅ Server stopped gracefully")
			return nil
		},
	}
}

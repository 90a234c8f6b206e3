package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shouni/gemini-vehicle-kit/internal/config"
	"github.com/shouni/gemini-vehicle-kit/internal/logger"
	"github.com/shouni/gemini-vehicle-kit/internal/server"
	"github.com/shouni/gemini-vehicle-kit/pkg/acquire"
	"github.com/shouni/gemini-vehicle-kit/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg, flags.configPath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, configPath string) error {
	gin.SetMode(cfg.Server.Mode)

	client, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}

	if configPath != "" {
		// ログレベルだけは再起動なしで反映する
		if err := config.Watch(configPath, func(next *config.Config) {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				slog.Warn("ログレベルを変更できませんでした", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	acquirer := acquire.NewAcquirer(cfg.Server.MaxUploadBytes)
	srv, err := server.New(func(context.Context) (*session.Controller, error) {
		return session.NewController(client,
			session.WithBaseContext(ctx),
			session.WithAcquirer(acquirer),
			session.WithObservers(session.LoggingObserver{}),
		)
	}, server.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		SessionTTL:     cfg.Server.SessionTTL,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("サーバーを起動します", "addr", cfg.Server.Addr, "provider", cfg.Provider, "model", cfg.Model())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("サーバーを停止します")
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

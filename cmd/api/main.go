package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"charity-chat-service/internal/config"
	"charity-chat-service/internal/dataset"
	"charity-chat-service/internal/handlers"
	"charity-chat-service/internal/logging"
	"charity-chat-service/internal/metrics"
	"charity-chat-service/internal/models"
	"charity-chat-service/internal/routes"
	"charity-chat-service/internal/services"
)

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	dataset *dataset.Dataset
}

// setup loads configuration and the dataset. A dataset that cannot be loaded stops
// the process.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	src := dataset.Source{
		Path:   cfg.DatasetPath,
		Driver: cfg.DatasetDriver,
		DSN:    cfg.DatasetDSN,
		Table:  cfg.DatasetTable,
	}
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	ds, err := dataset.Load(loadCtx, src, logger)
	if err != nil {
		logger.Error("error loading dataset", zap.String("source", src.String()), zap.Error(err))
		_ = logger.Sync()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded",
		zap.String("source", src.String()),
		zap.Int("charities", ds.Len()),
		zap.Int("categories", len(ds.Categories())),
		zap.Int("causes", len(ds.Causes())),
		zap.Int("cities", len(ds.Cities())),
	)
	return &app{cfg: cfg, logger: logger, dataset: ds}, nil
}

func (a *app) chatService(obs services.Observer) *services.ChatService {
	return &services.ChatService{
		Dataset:       a.dataset,
		PageSize:      a.cfg.PageSize,
		DonateBaseURL: a.cfg.DonateBaseURL,
		Logger:        a.logger,
		Observer:      obs,
	}
}

func serve(ctx context.Context) error {
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	var collector *metrics.Collector
	var obs services.Observer
	if a.cfg.MetricsEnabled {
		collector = metrics.NewCollector("charity_chat")
		obs = collector
	}

	chatHandlers := &handlers.ChatHandlers{Chat: a.chatService(obs)}
	h := routes.NewRouter(a.cfg, a.logger, chatHandlers, a.dataset, collector)

	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("charity-chat-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page and the /charity_info endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newAskCmd() *cobra.Command {
	var state models.ConversationState
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Answer one message against the dataset and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			resp := a.chatService(nil).Answer(models.ChatRequest{Message: args[0], ConversationState: state})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVar(&state.Category, "category", "", "category carried from the previous turn")
	cmd.Flags().StringVar(&state.Cause, "cause", "", "cause carried from the previous turn")
	cmd.Flags().StringVar(&state.Location, "location", "", "location carried from the previous turn")
	cmd.Flags().IntVar(&state.Offset, "offset", 0, "pagination offset carried from the previous turn")
	return cmd
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "charity-chat",
		Short:         "Chat-style query service over a charity dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newAskCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/config"
	"socialportfolio/backend/internal/handler"
	"socialportfolio/backend/internal/router"
	"socialportfolio/backend/internal/social"
	"socialportfolio/backend/pkg/jwt"
	"socialportfolio/backend/pkg/password"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openBackend(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("error closing store: %v", err)
		}
	}()

	engine := NewEngine(store, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server is running on :%s", cfg.Port)
		log.Printf("Swagger UI is available at http://localhost:%s/swagger/index.html", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewEngine wires the services over store and returns the HTTP engine.
func NewEngine(store Backend, cfg *config.Config) *gin.Engine {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	feed := social.NewFeed(store)

	h := handler.New(
		account.NewService(store, password.NewHasher(cfg.BcryptCost), tokens),
		social.NewEngine(store, feed, logger),
		feed,
		logger,
	)
	return router.New(h, tokens, router.Options{CORSOrigins: cfg.CORSOrigins})
}

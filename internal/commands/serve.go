package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tally/internal/cache"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/flashcard"
	apphttp "tally/internal/http"
	"tally/internal/log"
	"tally/internal/middleware/ratelimit"
)

const (
	shutdownTimeout    = 10 * time.Second
	cacheSweepInterval = time.Minute
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), appOptions{
				component: log.ComponentApp,
				validate:  (*config.Config).Validate,
				publish:   true,
				logOut:    os.Stdout,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := cli.SignalContext(cmd.Context(), a.logger)
			defer stop()
			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	deck, err := loadDeck(a.cfg.DeckPath)
	if err != nil {
		return err
	}
	if deck != nil {
		a.logger.InfoContext(ctx, "Loaded flashcard deck", "cards", deck.Len(), "path", a.cfg.DeckPath)
	}

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	caches := cache.NewManager(a.logger)
	caches.Register(a.service.TypesCache())
	caches.Register(limiter)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + a.cfg.Port,
		Service:            a.service,
		Store:              a.backend.Store,
		Deck:               deck,
		Limiter:            limiter,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		Logger:             a.logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.InfoContext(gctx, "HTTP server listening", "addr", srv.Addr, log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		caches.Run(gctx, cacheSweepInterval)
		return nil
	})
	return g.Wait()
}

// loadDeck reads the flashcard deck at path. An empty path disables the viewer.
func loadDeck(path string) (*flashcard.Deck, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	cards, err := flashcard.LoadDeck(f)
	if err != nil {
		return nil, fmt.Errorf("load deck %s: %w", path, err)
	}
	return flashcard.NewDeck(cards, nil), nil
}

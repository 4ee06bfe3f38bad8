package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietpage/folio/internal/comments"
	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/newsletter"
	"github.com/quietpage/folio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site over HTTP",
	Long: `Serve the site over HTTP, reloading content on demand.

With FOLIO_WATCH=true the content directory is watched and edits are
picked up automatically; otherwise POST /api/reload does the same on
request. Shuts down cleanly on SIGINT or SIGTERM.

Examples:
  # Serve ./content on :8080
  folio serve

  # Serve drafts too, watching for edits
  FOLIO_SHOW_DRAFTS=true FOLIO_WATCH=true folio serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store := content.NewStore(cfg.ContentDir, cfg.ShowDrafts, log)
	if err := store.Load(); err != nil {
		return err
	}

	nl := newsletter.NewClient(cfg.NewsletterURL, cfg.NewsletterAPIKey, cfg.ClientTimeout, log)
	cm := comments.NewClient(cfg.CommentsURL, cfg.CommentsToken, cfg.ClientTimeout)

	srv, err := web.NewServer(cfg, store, nl, cm, log)
	if err != nil {
		return err
	}

	var watcher *content.Watcher
	if cfg.Watch {
		watcher, err = content.NewWatcher(cfg.ContentDir, cfg.WatchDebounce, func() {
			if err := srv.Reload(); err != nil {
				log.Error("reload failed", "error", err)
			}
		}, log)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		nl.Close()
		cm.Close()
	}()

	log.Info("starting folio", "addr", cfg.Addr, "base_url", cfg.BaseURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

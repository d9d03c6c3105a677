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

	"github.com/petermazzocco/murmur-api/internal/auth"
	"github.com/petermazzocco/murmur-api/internal/config"
	"github.com/petermazzocco/murmur-api/internal/handlers"
	"github.com/petermazzocco/murmur-api/internal/media"
	"github.com/petermazzocco/murmur-api/internal/media/thumbnail"
	"github.com/petermazzocco/murmur-api/internal/service"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/spf13/cobra"
)

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireSessionSecret(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	db, err := store.Open(cfg.DBDriver, cfg.DSN, nil)
	if err != nil {
		return err
	}
	st := store.New(db)

	// Auto migrate models
	if err := st.Migrate(); err != nil {
		return err
	}

	images, err := mediaStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := service.New(st, images)
	h := handlers.New(svc, auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(cfg.RateLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func mediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.MediaBackend != "s3" {
		return media.InlineStore{}, nil
	}

	client, err := media.NewS3Client(ctx, media.S3Config{
		AccountID:       cfg.S3.AccountID,
		AccessKeyID:     cfg.S3.AccessKeyID,
		AccessKeySecret: cfg.S3.AccessKeySecret,
		Bucket:          cfg.S3.Bucket,
		PublicURL:       cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	return media.NewS3Store(client, cfg.S3.Bucket, cfg.S3.PublicURL, thumbnail.Thumbnailer{Size: cfg.AvatarSize}), nil
}

package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/show-catalog/internal/attachment"
	"github.com/iliyamo/show-catalog/internal/config"
	"github.com/iliyamo/show-catalog/internal/database"
	"github.com/iliyamo/show-catalog/internal/handler"
	"github.com/iliyamo/show-catalog/internal/queue"
	"github.com/iliyamo/show-catalog/internal/repository"
	"github.com/iliyamo/show-catalog/internal/router"
	"github.com/iliyamo/show-catalog/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.MustDriver()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store, err := attachment.NewStore(cfg.Upload)
	if err != nil {
		log.Fatal(err)
	}

	catalog := service.NewCatalog(repository.NewShowRepo(db), janitorFor(ctx, cfg.Cleanup, store))
	auth := service.NewAuthenticator(repository.NewUserRepo(db), cfg.JWTSecret, cfg.AccessTTLMin)

	e := router.New(router.Deps{
		DB:            db,
		Auth:          handler.NewAuthHandler(auth),
		Shows:         handler.NewShowHandler(catalog, store),
		Tokens:        auth,
		ProtectWrites: cfg.ProtectWrites,
		UploadDir:     store.Dir(),
		UploadPrefix:  cfg.Upload.URLPrefix,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// janitorFor picks how orphaned attachments are removed.  Queue mode also
// starts the consumer that performs the removal.
func janitorFor(ctx context.Context, cfg config.CleanupConfig, store *attachment.Store) service.Janitor {
	switch cfg.Mode {
	case config.CleanupOff:
		return nil
	case config.CleanupQueue:
		go func() {
			if err := queue.StartCleanupConsumer(ctx, cfg.AMQPURL, cfg.Queue, store); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("cleanup-consumer: %v", err)
			}
		}()
		return &queue.Publisher{
			URL:      cfg.AMQPURL,
			Queue:    cfg.Queue,
			Timeout:  cfg.PublishTimeout,
			Fallback: store.Discard,
		}
	}
	return store
}

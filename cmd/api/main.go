package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/trippio/trippio-api/internal/adapters/httpapi"
	"github.com/trippio/trippio-api/internal/adapters/logmailer"
	memitineraryrepo "github.com/trippio/trippio-api/internal/adapters/memory/itineraryrepo"
	memtokenrepo "github.com/trippio/trippio-api/internal/adapters/memory/tokenrepo"
	memtriprepo "github.com/trippio/trippio-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/trippio/trippio-api/internal/adapters/memory/userrepo"
	postgres "github.com/trippio/trippio-api/internal/adapters/postgres"
	pgitineraryrepo "github.com/trippio/trippio-api/internal/adapters/postgres/itineraryrepo"
	pgtokenrepo "github.com/trippio/trippio-api/internal/adapters/postgres/tokenrepo"
	pgtriprepo "github.com/trippio/trippio-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/trippio/trippio-api/internal/adapters/postgres/userrepo"
	"github.com/trippio/trippio-api/internal/app/auth"
	"github.com/trippio/trippio-api/internal/app/itinerary"
	"github.com/trippio/trippio-api/internal/app/sharing"
	"github.com/trippio/trippio-api/internal/app/trips"
	platformclock "github.com/trippio/trippio-api/internal/platform/clock"
	"github.com/trippio/trippio-api/internal/platform/config"
	"github.com/trippio/trippio-api/internal/platform/token"
	itineraryrepoport "github.com/trippio/trippio-api/internal/ports/out/itineraryrepo"
	tokenrepoport "github.com/trippio/trippio-api/internal/ports/out/tokenrepo"
	triprepoport "github.com/trippio/trippio-api/internal/ports/out/triprepo"
	userrepoport "github.com/trippio/trippio-api/internal/ports/out/userrepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()
	signer := token.NewService([]byte(cfg.TokenSecret), cfg.TokenIssuer, clk)

	var (
		users   userrepoport.Repository
		tripsDB triprepoport.Repository
		tokens  tokenrepoport.Repository
		content itineraryrepoport.Repository
		cleanup func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close

		users = pguserrepo.NewRepo(pool)
		tripsDB = pgtriprepo.NewRepo(pool)
		tokens = pgtokenrepo.NewRepo(pool)
		content = pgitineraryrepo.NewRepo(pool)
	default:
		users = memuserrepo.NewRepo()
		tripsDB = memtriprepo.NewRepo()
		tokens = memtokenrepo.NewRepo()
		content = memitineraryrepo.NewRepo()
	}

	if cleanup != nil {
		defer cleanup()
	}

	authSvc := auth.NewService(users, tokens, logmailer.New(), signer, clk, auth.Config{
		MagicLinkTTL:    cfg.MagicLinkTTL,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		AppBaseURL:      cfg.AppBaseURL,
		ExposeMagicLink: cfg.ExposeMagicLink,
	})
	sharingSvc := sharing.NewService(tripsDB, users, signer, clk, sharing.Config{
		ShareTokenTTL: cfg.ShareTokenTTL,
		AppBaseURL:    cfg.AppBaseURL,
	})
	tripSvc := trips.NewService(tripsDB, clk)
	contentSvc := itinerary.NewService(tripsDB, content, clk)

	api := httpapi.NewServer(authSvc, sharingSvc, tripSvc, contentSvc, httpapi.ServerOptions{
		SecureCookies: cfg.SecureCookies,
	})
	handler := httpapi.NewRouter(api, signer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remotehire/internal/common/aws"
	"remotehire/internal/common/clock"
	"remotehire/internal/common/config"
	"remotehire/internal/common/database"
	"remotehire/internal/common/httpclient"
	"remotehire/internal/common/logger"
	"remotehire/internal/common/observability"
	"remotehire/internal/destruct"
	"remotehire/internal/notify"
	"remotehire/internal/server"
	"remotehire/internal/store"
	"remotehire/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting", map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.WithError(err).Error("postgres init failed", nil)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		log.WithError(err).Error("postgres unreachable", nil)
		os.Exit(1)
	}
	rowStore := store.NewPostgresStore(pg.GetDB())

	var limiter *server.RedisLimiter
	var statusCache *server.StatusCache
	if cfg.Database.Redis.Address != "" {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			log.WithError(err).Warn("redis init failed, running without cache or rate limit", nil)
		} else {
			defer redisClient.Close()
			if err := redisClient.Ping(ctx); err != nil {
				log.WithError(err).Warn("redis unreachable, running without cache or rate limit", nil)
			} else {
				if cfg.RateLimit.Enabled {
					limiter = server.NewRedisLimiter(redisClient.GetClient())
				}
				statusCache = server.NewStatusCache(redisClient.GetClient(), time.Minute)
			}
		}
	}

	var sender notify.EmailSender
	var sms destruct.SNSAPI
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("ses init failed, email notifications disabled", nil)
		} else {
			sender = notify.NewSESSender(sesClient, cfg.Integrations.AWS.SES.FromEmail)
		}
	}
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			log.WithError(err).Warn("sns init failed, admin sms alerts disabled", nil)
		} else {
			sms = snsClient
		}
	}

	clk := clock.RealClock{}
	budget := notify.NewBudget(clk, cfg.Notifications.DailyLimit)
	trackerSvc := tracker.NewService(rowStore, sender, budget, clk, clock.UUIDGenerator{}, log,
		tracker.Options{
			AdminEmail:  cfg.Notifications.AdminEmail,
			SendTimeout: config.GetDuration(cfg.Notifications.SendTimeout),
		})

	destroyer := destruct.NewRepoDestroyer(
		httpclient.NewClient(30*time.Second),
		cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)
	destructSvc := destruct.NewService(rowStore, destroyer, sms,
		cfg.Integrations.AWS.SNS.AdminPhone,
		cfg.SelfDestruct.Password, cfg.SelfDestruct.FinalAnswer, log)

	handler := server.NewRouter(server.RouterDependencies{
		Handlers:       server.NewHandlers(trackerSvc, destructSvc, statusCache, log),
		Auth:           server.NewAuthMiddleware(cfg.Admin.Token),
		Limiter:        limiter,
		RateLimit:      cfg.RateLimit.RequestsPerMinute,
		RateWindow:     time.Minute,
		Obs:            obs,
		Log:            log,
		RequestTimeout: config.GetDuration(cfg.HTTP.RequestTimeout),
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.HTTP.Address})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		log.WithError(err).Error("http server failed", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}
	log.Info("stopped", nil)
}

package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/coffee-shop-auth/internal/config"   // Internal config loader
	"github.com/iliyamo/coffee-shop-auth/internal/database" // MySQL pool and migrations
	"github.com/iliyamo/coffee-shop-auth/internal/handler"
	"github.com/iliyamo/coffee-shop-auth/internal/logger"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/queue"
	"github.com/iliyamo/coffee-shop-auth/internal/repository"
	"github.com/iliyamo/coffee-shop-auth/internal/router" // Internal router setup
	"github.com/iliyamo/coffee-shop-auth/internal/service"
	"github.com/iliyamo/coffee-shop-auth/internal/storage"
	"github.com/iliyamo/coffee-shop-auth/internal/utils"
)

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	m := metrics.New()
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	codec, err := utils.NewTokenCodec(utils.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	if err != nil {
		return err
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	resets := repository.NewPasswordResetRepo(db)

	if err := service.Seed(ctx, roles, users, hasher, cfg.Admin.Email, cfg.Admin.Password, log); err != nil {
		return err
	}

	// uploads are disabled unless an object store is configured
	var avatars service.AvatarStore
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewAvatarStore(ctx, cfg.MinIO)
		if err != nil {
			log.WithError(err).Warn("avatar storage unavailable; uploads disabled")
		} else {
			avatars = store
		}
	}

	proxies, err := cfg.ProxyNets()
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unreachable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	authSvc := service.NewAuthService(users, roles, hasher, codec, avatars, m, log)
	adminSvc := service.NewUserAdminService(users, roles, log)
	resetSvc := service.NewPasswordResetService(
		users, resets, hasher,
		service.NewMailPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.MailQueue),
		service.ResetConfig{Digits: cfg.OTP.Digits, TTL: cfg.OTP.TTL},
		m, log,
	)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	router.RegisterRoutes(e, router.Deps{ // Register application routes
		Auth:          handler.NewAuthHandler(authSvc),
		Resets:        handler.NewPasswordResetHandler(resetSvc),
		Admin:         handler.NewAdminHandler(adminSvc),
		Authenticator: authSvc,
		DB:            db,
		Metrics:       m,
		Redis:         rdb,
		RateLimit:     cfg.RateLimit,
		Cache:         cfg.Cache,
		Log:           log,

		TrustedProxies: proxies,
	})

	sweeper := service.NewSweeper(resets, cfg.OTP.SweepInterval, m, log)
	sweeper.Start()
	defer func() { <-sweeper.Stop().Done() }()

	consumer := &queue.MailConsumer{
		URL:     cfg.RabbitMQ.URL,
		Queue:   cfg.RabbitMQ.MailQueue,
		LogPath: cfg.RabbitMQ.MailLog,
		Log:     log,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

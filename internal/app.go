package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"files-manager-api/config"
	"files-manager-api/internal/application/ports"
	"files-manager-api/internal/application/services"
	"files-manager-api/internal/domain/file"
	"files-manager-api/internal/infrastructure/db/postgres"
	fileDB "files-manager-api/internal/infrastructure/db/postgres/file"
	"files-manager-api/internal/infrastructure/jwt"
	"files-manager-api/internal/infrastructure/metrics"
	"files-manager-api/internal/infrastructure/mq"
	"files-manager-api/internal/infrastructure/session"
	"files-manager-api/internal/infrastructure/storage/local"
	s3store "files-manager-api/internal/infrastructure/storage/s3"
	"files-manager-api/internal/interface/api/rest"
	"files-manager-api/internal/interface/api/rest/middleware"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	rdb        *redis.Client
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	fileRepo   file.Repository
	store      ports.ContentStore
	sessions   ports.SessionResolver
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context, configPath string) (*App, error) {
	// config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// logger
	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize zap logger: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:    cfg.App.Host + ":" + cfg.App.Port,
		Handler: r,
	}

	a := &App{
		logger:   logger,
		cfg:      cfg,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	a.db, err = postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err = postgres.Migrate(ctx, a.db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	a.fileRepo = fileDB.NewRepository(a.db)

	// sessions
	switch cfg.Session.Backend {
	case config.SessionJWT:
		a.sessions = jwt.New(cfg.Session.JWTSecret)
	default:
		a.rdb = session.NewClient(cfg.Redis)
		resolver := session.NewRedisResolver(a.rdb, cfg.Session.KeyPrefix)
		if err = resolver.Ping(ctx); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		a.sessions = resolver
	}

	// content store
	switch cfg.Storage.Backend {
	case config.StorageS3:
		client, err := s3store.NewClient(ctx, cfg.S3)
		if err != nil {
			logger.Fatal("S3 config error", zap.Error(err))
		}
		if a.store, err = s3store.New(ctx, logger, client, cfg.S3); err != nil {
			logger.Fatal("failed to connect to S3", zap.Error(err))
		}
	default:
		a.store = local.New(cfg.Storage.FolderPath)
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger, mCounter)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	a.mq = rbMQ

	// variant worker
	if cfg.MQ.WorkerEnabled {
		variantService := services.NewVariantService(a.fileRepo, a.store, mCounter)
		rmqConsumer := mq.NewConsumer(cfg.MQ, logger, variantService)
		if err = rmqConsumer.Connect(rabbitDsn); err != nil {
			logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
		}
		if err = rmqConsumer.Init(); err != nil {
			logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
		}
		a.mqConsumer = rmqConsumer
	}

	return a, nil
}

func newLogger(env string) (*zap.Logger, error) {
	switch env {
	case gin.ReleaseMode, "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.mq != nil {
		_ = a.mq.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	fileService := services.NewFileService(
		a.logger,
		a.fileRepo,
		a.store,
		a.mq,
		a.mCounter,
		a.cfg.Storage.WriteTimeout,
	)
	contentService := services.NewContentService(a.fileRepo, a.store, a.sessions)

	// controllers
	rest.NewFileController(a.router, fileService, contentService, a.sessions, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteReady, a.readyHandler)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (a *App) readyHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("readiness: postgres", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "postgres unavailable"})
		return
	}
	// stateless session backends have nothing to ping
	if p, ok := a.sessions.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			a.logger.Warn("readiness: session store", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
	}

	c.Status(http.StatusOK)
}

func (a *App) Logger() *zap.Logger { return a.logger }

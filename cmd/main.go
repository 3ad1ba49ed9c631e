package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/sandwich_shop/internal/cache"
	"github.com/fjod/sandwich_shop/internal/config"
	h "github.com/fjod/sandwich_shop/internal/http"
	"github.com/fjod/sandwich_shop/internal/publisher"
	"github.com/fjod/sandwich_shop/internal/repository"
	"github.com/fjod/sandwich_shop/internal/service"
	"github.com/fjod/sandwich_shop/pkg/logger"
)

const serviceName = "sandwich-shop"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Log.Level)
	slog.SetDefault(log)

	// incoming traceparent headers become the span context that the logger reads trace_id from
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := run(cfg, log); err != nil {
		log.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("service exited")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cred := &repository.Credentials{
		Host:              cfg.Postgres.Host,
		Port:              cfg.Postgres.Port,
		User:              cfg.Postgres.User,
		Password:          cfg.Postgres.Password,
		DBName:            cfg.Postgres.DBName,
		MigrationsDirPath: cfg.Postgres.MigrationsDirPath,
		MaxConns:          cfg.Postgres.MaxConns,
		MinConns:          cfg.Postgres.MinConns,
	}
	if err := repository.RunMigrations(cred); err != nil {
		return err
	}
	log.Info("migrations applied")

	repo, err := repository.NewRepository(ctx, cred)
	if err != nil {
		return err
	}
	defer repo.Close()

	taxRate, err := cfg.TaxRate()
	if err != nil {
		return err
	}

	var menuCache cache.MenuCache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			// the menu still works from Postgres, only slower
			log.Warn("redis unavailable, menu cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			menuCache = cache.NewRedisCache(client, cfg.Redis.TTL)
			log.Info("menu cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	menuSvc := service.NewMenuService(repo, menuCache, logger.WithComponent(log, "menu"))
	orderSvc := service.NewOrderService(repo, repo, repo, taxRate, logger.WithComponent(log, "orders"))
	promoSvc := service.NewPromotionService(repo, logger.WithComponent(log, "promotions"))
	paymentSvc := service.NewPaymentService(repo, repo, logger.WithComponent(log, "payments"))

	services := h.Services{
		Menu:       menuSvc,
		Orders:     orderSvc,
		Promotions: promoSvc,
		Payments:   paymentSvc,
	}

	if cfg.Mongo.URI != "" {
		db, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return err
		}
		defer disconnectMongo(db.Client(), log)

		reviews := repository.NewMongoReviewRepository(db)
		if err := repository.EnsureReviewIndexes(ctx, reviews); err != nil {
			return err
		}
		services.Reviews = service.NewReviewService(reviews, menuSvc)
		log.Info("review store enabled", "database", cfg.Mongo.Database)
	} else {
		log.Info("mongo uri not set, review endpoints disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	sink, err := newSink(cfg.Broker)
	if err != nil {
		return err
	}
	if sink != nil {
		poller := publisher.NewOutboxPoller(repo, sink, cfg.Broker.PollInterval, cfg.Broker.BatchSize,
			logger.WithComponent(log, "outbox"))
		defer func() {
			if err := poller.Close(); err != nil {
				log.Warn("failed to close event sink", "error", err)
			}
		}()
		g.Go(func() error { return poller.Run(gctx) })
		log.Info("outbox publisher started", "broker", cfg.Broker.Kind)
	}

	router := h.NewRouter(services, h.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	}, logger.WithComponent(log, "http"))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g.Go(func() error {
		log.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newSink(cfg config.Broker) (publisher.Sink, error) {
	switch cfg.Kind {
	case config.BrokerKafka:
		return publisher.NewKafkaSink(cfg.Topic, cfg.KafkaBrokers...), nil
	case config.BrokerRabbitMQ:
		return publisher.DialRabbit(cfg.RabbitURL, cfg.Exchange)
	default:
		return nil, nil
	}
}

func disconnectMongo(client *mongo.Client, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn("failed to disconnect from mongo", "error", err)
	}
}

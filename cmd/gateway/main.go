package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/grachmannico95/topup-gateway/internal/auth"
	"github.com/grachmannico95/topup-gateway/internal/config"
	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/eventbus"
	"github.com/grachmannico95/topup-gateway/internal/handler"
	"github.com/grachmannico95/topup-gateway/internal/idempotency"
	"github.com/grachmannico95/topup-gateway/internal/operator"
	"github.com/grachmannico95/topup-gateway/internal/reconciliation"
	"github.com/grachmannico95/topup-gateway/internal/server"
	"github.com/grachmannico95/topup-gateway/internal/service"
	"github.com/grachmannico95/topup-gateway/internal/storage"
	"github.com/grachmannico95/topup-gateway/internal/validation"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

func main() {
	configPath := kingpin.Flag("config", "Path to the application config file").Short('c').Default("").String()
	kingpin.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	defer func() {
		_ = lg.Sync()
	}()

	ctx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	lg.Info(ctx, "Starting application")

	checks := make(map[string]handler.Check)
	var closers []func() error

	store, memory := openStore(ctx, cfg, lg, checks, &closers)

	var operatorStatus domain.OperatorStatusRepository
	switch {
	case cfg.Redis.Enabled:
		redisClient, err := storage.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Fatal(ctx, "Failed to connect to redis", "error", err)
		}
		closers = append(closers, redisClient.Close)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		operatorStatus = storage.NewRedisOperatorStatusStore(redisClient)
		lg.Info(ctx, "Operator status read from redis", "addr", cfg.Redis.Addr)
	case memory != nil:
		operatorStatus = memory
	default:
		lg.Warn(ctx, "Redis disabled with a postgres store, availability probes will report no health record")
		operatorStatus = storage.NewMemoryStore()
	}

	dispatchers, err := operator.NewRegistryFromConfig(cfg.Operators)
	if err != nil {
		lg.Fatal(ctx, "Failed to build operator registry", "error", err)
	}

	var (
		notifier     eventbus.Notifier = eventbus.NewLogNotifier(lg)
		kafkaMetrics *reconciliation.ClientMetrics
		resolutions  *reconciliation.Consumer
	)
	if cfg.Kafka.Enabled {
		kafkaMetrics = reconciliation.NewClientMetrics("gateway_kafka")

		producer, err := reconciliation.NewProducerClient(cfg.Kafka.Brokers, kafkaMetrics.Producer)
		if err != nil {
			lg.Fatal(ctx, "Failed to create kafka producer", "error", err)
		}
		closers = append(closers, func() error { producer.Close(); return nil })
		checks["kafka"] = producer.Ping
		notifier = reconciliation.NewKafkaNotifier(producer, cfg.Kafka.SuspensionTopic)

		resolutions, err = reconciliation.NewConsumer(reconciliation.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			Group:          cfg.Kafka.ConsumerGroup,
			Topic:          cfg.Kafka.ResolutionTopic,
			RecordsPerPoll: cfg.Kafka.RecordsPerPoll,
			MaxAttempts:    cfg.EventBus.MaxRetries,
		}, reconciliation.NewApplier(store, lg), kafkaMetrics.Consumer, lg)
		if err != nil {
			lg.Fatal(ctx, "Failed to create resolution consumer", "error", err)
		}
		lg.Info(ctx, "Kafka reconciliation enabled",
			"suspension_topic", cfg.Kafka.SuspensionTopic,
			"resolution_topic", cfg.Kafka.ResolutionTopic,
		)
	}

	bus := eventbus.New(lg, &eventbus.Config{
		ChannelBuffer: cfg.EventBus.ChannelBuffer,
		MaxRetries:    cfg.EventBus.MaxRetries,
	})
	if err := bus.Subscribe(eventbus.EventTypeSuspension, eventbus.NewSuspensionConsumer(notifier, lg, cfg.EventBus.Workers)); err != nil {
		lg.Fatal(ctx, "Failed to subscribe consumer", "error", err)
	}
	if err := bus.Start(ctx); err != nil {
		lg.Fatal(ctx, "Failed to start event bus", "error", err)
	}
	lg.Info(ctx, "Event bus initialized", "worker_count", cfg.EventBus.Workers)

	gateway := service.NewGatewayService(service.Dependencies{
		Validator:      validation.NewDefaultChain(validation.RulesFromConfig(cfg.Operators), cfg.Validation.BankCodes, store, store),
		Access:         auth.NewAccessControl(store, lg),
		Resolver:       idempotency.NewResolver(store, lg),
		Transactions:   store,
		OperatorStatus: operatorStatus,
		Dispatchers:    dispatchers,
		EventBus:       bus,
		Logger:         lg,
	})

	var opts []server.Option
	if kafkaMetrics != nil {
		opts = append(opts, server.WithKafkaMetrics(kafkaMetrics.Handler()))
	}
	srv := server.New(cfg, lg, handler.NewGatewayHandler(gateway, lg), handler.NewHealthHandler(checks), opts...)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal(ctx, "Failed to start HTTP server", "error", err)
		}
	}()

	var wg sync.WaitGroup
	if resolutions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := resolutions.Poll(ctx); err != nil {
				lg.Error(ctx, "Resolution consumer stopped", "error", err)
			}
		}()
	}

	lg.Info(ctx, "Application started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info(ctx, "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// HTTP first: no topup may publish a notice after the bus stopped.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
	}
	if err := bus.Shutdown(shutdownCtx); err != nil {
		lg.Error(shutdownCtx, "Event bus shutdown error", "error", err)
	}

	cancelRun()
	wg.Wait()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			lg.Error(shutdownCtx, "Failed to close resource", "error", err)
		}
	}

	lg.Info(shutdownCtx, "Application stopped gracefully")
}

// openStore returns the store of record, and the memory store when that is
// what backs it.
func openStore(ctx context.Context, cfg *config.Config, lg *logger.Logger, checks map[string]handler.Check, closers *[]func() error) (domain.Store, *storage.MemoryStore) {
	if cfg.Database.Driver == "postgres" {
		pg, err := storage.NewPostgresStore(cfg.Database.DSN)
		if err != nil {
			lg.Fatal(ctx, "Failed to open postgres store", "error", err)
		}
		*closers = append(*closers, pg.Close)
		checks["postgres"] = pg.Ping
		lg.Info(ctx, "Postgres store initialized")
		return pg, nil
	}

	memory := storage.NewMemoryStore()
	seedMemoryStore(ctx, cfg, memory)
	lg.Warn(ctx, "Using in-memory store, transactions are lost on restart",
		"clients", len(cfg.Seed.Clients),
	)
	return memory, memory
}

func seedMemoryStore(ctx context.Context, cfg *config.Config, memory *storage.MemoryStore) {
	for _, c := range cfg.Seed.Clients {
		memory.AddClient(domain.Client{
			ID:               c.ID,
			Username:         c.Username,
			PasswordHash:     c.PasswordHash,
			Active:           true,
			AllowedAddresses: c.AllowedAddresses,
		})
	}
	for _, id := range cfg.Seed.PaymentChannels {
		memory.AddPaymentChannel(domain.PaymentChannel{ID: id, Active: true})
	}
	for name, oc := range cfg.Operators {
		id := domain.OperatorID(oc.ID)
		memory.AddOperator(domain.Operator{ID: id, Name: name, Active: oc.Enabled})
		_ = memory.SetOperatorStatus(ctx, domain.OperatorStatus{OperatorID: id, IsAvailable: oc.Enabled, CheckedAt: time.Now()})
	}
}

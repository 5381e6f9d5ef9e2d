package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/bus-reservation/internal/config"
	"github.com/mateusmacedo/bus-reservation/internal/reservation"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/application"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/domain"
	"github.com/mateusmacedo/bus-reservation/internal/reservation/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-reservation/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-reservation/pkg/domain"
	pkgInfra "github.com/mateusmacedo/bus-reservation/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/channels/adapter"
	"github.com/mateusmacedo/bus-reservation/pkg/infrastructure/messaging"
	redisAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/redis/adapter"
	watermillLogAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/bus-reservation/pkg/infrastructure/zaplogger/adapter"
)

const appName = "bus-reservation"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(appName, os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Help {
		return nil
	}

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Config{
		App:        appName,
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
	})
	if err != nil {
		return err
	}
	defer syncLogger(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient redis.UniversalClient
	if cfg.NeedsRedis() {
		redisClient, err = redisAdapter.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	store, err := newBusStore(cfg, redisClient, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "Erro ao inicializar o armazenamento", err, map[string]interface{}{
			"storage": cfg.Storage,
		})
		return err
	}

	publisher, err := messaging.NewPublisher(messaging.PublisherConfig{
		Kind:         cfg.Events,
		RedisClient:  redisClient,
		KafkaBrokers: cfg.KafkaBrokers,
		ClientID:     appName,
	}, watermillLogAdapter.NewWatermillLoggerAdapter(ctx, appLogger))
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "Erro ao inicializar o publisher de eventos", err, map[string]interface{}{
			"events": cfg.Events,
		})
		return err
	}
	defer publisher.Close()

	commandBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.SeatRequestData], application.SeatRequestData](appLogger)
	queryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.BusQueryData], application.BusQueryData, []domain.Bus](appLogger)
	eventBus := channelsAdapter.NewWatermillEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](publisher, cfg.EventsTopic, appLogger)

	repository := infrastructure.NewInMemoryBusRepository(appLogger)

	slice := reservation.NewReservationSlice(
		commandBus,
		queryBus,
		eventBus,
		pkgInfra.GenerateUUID,
		appLogger,
		repository,
		store,
		os.Stdin,
		os.Stdout,
	)

	// A leitura do terminal não é interrompível; ao receber um sinal o estado é salvo aqui mesmo.
	// Shutdown e a opção de saída do menu compartilham uma única gravação, então quem
	// chegar depois espera a primeira terminar. Antes da carga inicial nada é gravado.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		appLogger.Info(ctx, "Sinal capturado", map[string]interface{}{"signal": sig.String()})
		if err := slice.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "\nError saving data: %v\n", err)
			syncLogger(appLogger)
			os.Exit(1)
		}
		syncLogger(appLogger)
		os.Exit(130)
	}()

	return slice.Run(ctx)
}

func newBusStore(cfg config.Config, redisClient redis.UniversalClient, logger pkgApp.AppLogger) (domain.BusStore, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return infrastructure.NewGormBusStore(cfg.DSN, logger)
	case config.StorageRedis:
		return infrastructure.NewRedisBusStore(redisClient, cfg.RedisPrefix, logger), nil
	default:
		return infrastructure.NewFileStore(cfg.DataFile, logger), nil
	}
}

func syncLogger(logger pkgApp.AppLogger) {
	if syncer, ok := logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recibos/billing-system/internal/api"
	"github.com/recibos/billing-system/internal/core/ports"
	"github.com/recibos/billing-system/internal/core/service"
	"github.com/recibos/billing-system/internal/infrastructure/config"
	"github.com/recibos/billing-system/internal/infrastructure/db/memory"
	mongodb "github.com/recibos/billing-system/internal/infrastructure/db/mongo"
	redisdb "github.com/recibos/billing-system/internal/infrastructure/db/redis"
	"github.com/recibos/billing-system/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "billing-api",
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("backend", cfg.StoreBackend).
		Msg("starting billing API")

	policy, err := cfg.Access.Policy()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid access policy")
	}

	ctx := context.Background()

	var (
		repos    repoSet
		sessions ports.SessionStore
		db       *mongo.Database
		rdb      *goredis.Client
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		if err := store.Seed(); err != nil {
			log.Fatal().Err(err).Msg("failed to seed memory store")
		}
		repos = repoSet{
			users:    memory.NewUserRepository(store),
			clients:  memory.NewClientRepository(store),
			products: memory.NewProductRepository(store),
			bills:    memory.NewBillRepository(store),
			deposits: memory.NewDepositRepository(store),
		}
		sessions = memory.NewSessionStore()

	default: // mongo
		client, database, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db = database

		users := mongodb.NewUserRepository(db)
		bills := mongodb.NewBillRepository(db)
		deposits := mongodb.NewDepositRepository(db)
		for _, ensure := range []func(context.Context) error{
			users.EnsureIndexes, bills.EnsureIndexes, deposits.EnsureIndexes,
		} {
			if err := ensure(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to create indexes")
			}
		}
		repos = repoSet{
			users:    users,
			clients:  mongodb.NewClientRepository(db),
			products: mongodb.NewProductRepository(db),
			bills:    bills,
			deposits: deposits,
		}

		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer func() { _ = rdb.Close() }()
		sessions = redisdb.NewSessionStore(rdb)
	}

	guard := service.NewGuard(sessions, policy)
	authService := service.NewAuthService(repos.users, sessions, guard, cfg.SessionTTL, log)

	if err := authService.EnsureAdministrator(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("administrator bootstrap failed")
	}

	services := ports.Services{
		Auth:     authService,
		Users:    service.NewUserService(repos.users, guard, log),
		Clients:  service.NewClientService(repos.clients, guard, log),
		Products: service.NewProductService(repos.products, guard, log),
		Bills:    service.NewBillService(repos.bills, guard, log),
		Deposits: service.NewDepositService(repos.deposits, guard, log),
		Balance:  service.NewBalanceService(repos.bills, repos.deposits, guard, log),
	}

	e := api.NewRouter(services, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// repoSet groups the five entity repositories regardless of backend.
type repoSet struct {
	users    ports.UserRepository
	clients  ports.ClientRepository
	products ports.ProductRepository
	bills    ports.BillRepository
	deposits ports.DepositRepository
}

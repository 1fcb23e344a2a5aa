// Command server runs the inventory HTTP API.
//
//	@title						Inventory API
//	@version					1.0
//	@description				Server, domain and billing inventory with a per-field audit log.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/rackledger/inventory/docs"
	"github.com/rackledger/inventory/internal/api"
	"github.com/rackledger/inventory/internal/core/ports"
	"github.com/rackledger/inventory/internal/core/service"
	"github.com/rackledger/inventory/internal/infrastructure/db/mongo"
	"github.com/rackledger/inventory/internal/infrastructure/db/redis"
	"github.com/rackledger/inventory/internal/infrastructure/db/sqldb"
	"github.com/rackledger/inventory/internal/infrastructure/http/handlers"
	"github.com/rackledger/inventory/internal/pkg/config"
	"github.com/rackledger/inventory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "inventory",
		Env:     cfg.Env,
	})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := sqldb.Open(ctx, sqldb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN, Debug: cfg.Database.Debug}, logger.Component("sqldb"))
	if err != nil {
		return err
	}
	defer sqldb.Close(db)
	if err := sqldb.Migrate(db); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	var (
		history ports.HistoryRepository = sqldb.NewHistoryRepository(db)
		mdb     *mongodriver.Database
	)
	if cfg.HistoryStore == "mongo" {
		store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		repo := store.History()
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		history, mdb = repo, store.Database()
		log.Info().Str("database", cfg.Mongo.Database).Msg("history stored in mongodb")
	}

	var (
		denylist ports.TokenDenylist
		rdb      *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		denylist = redis.NewDenylist(rdb)
		log.Info().Msg("token revocation enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set; logout is disabled")
	}

	tracker := service.NewChangeTracker(history, log)
	users := sqldb.NewUserRepository(db)
	servers := sqldb.NewServerRepository(db)
	groups := sqldb.NewGroupRepository(db)
	projects := sqldb.NewProjectRepository(db)
	userService := service.NewUserService(users, tracker, log)

	if _, err := service.SeedAdmin(ctx, userService, service.AdminSeed{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Email:    cfg.Admin.Email,
	}, log); err != nil {
		return err
	}

	e := api.NewRouter(api.Services{
		Auth:     service.NewAuthService(users, service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL), denylist, log),
		Servers:  service.NewServerService(servers, groups, projects, tracker, log),
		Domains:  service.NewDomainService(sqldb.NewDomainRepository(db), groups, tracker, log),
		Projects: service.NewProjectService(projects, tracker, log),
		Groups:   service.NewGroupService(groups, projects, tracker, log),
		Finance:  service.NewFinanceService(sqldb.NewFinanceRepository(db), servers, tracker, log),
		Users:    userService,
		History:  service.NewHistoryService(history),
	}, api.Options{
		CORSOrigins: cfg.Origins(),
		Readiness:   handlers.NewHealthDependenciesHandler(db, mdb, rdb),
	}, logger.Component("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

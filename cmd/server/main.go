package main

import (
	"context"
	"errors"
	"expvar"
	"log"
	"runtime"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/messaging"
	"github.com/dmelnic/teamchat/internal/infrastructure/metrics"
	"github.com/dmelnic/teamchat/internal/infrastructure/ratelimiter"
	"github.com/dmelnic/teamchat/internal/infrastructure/tracing"
	"github.com/dmelnic/teamchat/internal/infrastructure/ws"
	"github.com/dmelnic/teamchat/internal/persistence/db"
	"github.com/dmelnic/teamchat/internal/persistence/repository"
	"github.com/dmelnic/teamchat/internal/presentation/api"
	authHandler "github.com/dmelnic/teamchat/internal/presentation/handler/auth"
	chatHandler "github.com/dmelnic/teamchat/internal/presentation/handler/chat"
	groupsHandler "github.com/dmelnic/teamchat/internal/presentation/handler/groups"
	healthHandler "github.com/dmelnic/teamchat/internal/presentation/handler/health"
	messagesHandler "github.com/dmelnic/teamchat/internal/presentation/handler/messages"
	usersHandler "github.com/dmelnic/teamchat/internal/presentation/handler/users"
)

const (
	serviceName = "teamchat-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Init()

	mongoCfg := &db.MongoConfig{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
	}

	mongoClient, err := db.NewMongoClient(ctx, mongoCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.DisconnectMongo(context.Background(), mongoClient)

	database := db.GetDatabase(mongoClient, mongoCfg)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal(err)
	}

	userRepository := repository.NewUserRepository(database)
	groupRepository := repository.NewGroupRepository(database)
	messageRepository := repository.NewMessageRepository(database)
	auditRepository := repository.NewChatAuditLogRepository(database)

	if err := auditRepository.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	if cfg.Auth.SeedAdmin {
		if err := seedAdmin(ctx, cfg, userRepository, logger); err != nil {
			log.Fatal(err)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		logger.Info(logging.RabbitMQ, logging.Startup, "rabbitmq connected", nil)

		publisher = events.NewChatPublisher(rabbitmq)

		consumer := events.NewChatConsumer(rabbitmq, auditRepository, logger)
		go func() {
			if err := consumer.Listen(); err != nil {
				logger.Error(logging.RabbitMQ, logging.Consume, "consumer stopped", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
		}()
	}

	m := metrics.New()

	registry := ws.NewRegistry(cfg.Hub.SendBuffer)
	hub := ws.NewHub(registry, messageRepository, publisher, m, logger)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(
		*cfg,
		authHandler.NewHandler(userRepository, hub, cfg.Auth, logger),
		usersHandler.NewHandler(userRepository, hub, publisher, logger),
		groupsHandler.NewHandler(groupRepository, userRepository, publisher, logger),
		messagesHandler.NewHandler(messageRepository, groupRepository),
		chatHandler.NewHandler(hub, userRepository, *cfg, logger),
		healthHandler.NewHandler(),
		m,
		logger,
		rl,
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}

// seedAdmin makes sure at least one admin account exists, so a fresh
// deployment has someone who can register the rest of the team.
func seedAdmin(ctx context.Context, cfg *configs.Config, users domain.UserRepository, logger logging.Logger) error {
	count, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Auth.AdminPassword == "" {
		return errors.New("auth.admin_password is required to seed the first admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := domain.NewUser("Admin", cfg.Auth.AdminEmail, string(hash), domain.RoleAdmin)
	if err != nil {
		return err
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Info(logging.Auth, logging.Startup, "seeded initial admin account", map[logging.ExtraKey]any{
		logging.UserID: admin.ID,
	})
	return nil
}

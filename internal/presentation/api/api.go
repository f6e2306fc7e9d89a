package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/metrics"
	"github.com/dmelnic/teamchat/internal/infrastructure/ratelimiter"
	authHandler "github.com/dmelnic/teamchat/internal/presentation/handler/auth"
	chatHandler "github.com/dmelnic/teamchat/internal/presentation/handler/chat"
	groupsHandler "github.com/dmelnic/teamchat/internal/presentation/handler/groups"
	healthHandler "github.com/dmelnic/teamchat/internal/presentation/handler/health"
	messagesHandler "github.com/dmelnic/teamchat/internal/presentation/handler/messages"
	usersHandler "github.com/dmelnic/teamchat/internal/presentation/handler/users"
)

type Application struct {
	config          configs.Config
	authHandler     *authHandler.Handler
	usersHandler    *usersHandler.Handler
	groupsHandler   *groupsHandler.Handler
	messagesHandler *messagesHandler.Handler
	chatHandler     *chatHandler.Handler
	healthHandler   *healthHandler.Handler
	metrics         *metrics.Metrics
	logger          logging.Logger
	ratelimiter     ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	authHandler *authHandler.Handler,
	usersHandler *usersHandler.Handler,
	groupsHandler *groupsHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	chatHandler *chatHandler.Handler,
	healthHandler *healthHandler.Handler,
	m *metrics.Metrics,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:          config,
		authHandler:     authHandler,
		usersHandler:    usersHandler,
		groupsHandler:   groupsHandler,
		messagesHandler: messagesHandler,
		chatHandler:     chatHandler,
		healthHandler:   healthHandler,
		metrics:         m,
		logger:          logger,
		ratelimiter:     ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.loggerMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", app.authHandler.LoginHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.authMiddleware)
				r.Post("/logout", app.authHandler.LogoutHandler)
				r.Get("/me", app.authHandler.MeHandler)
				r.Post("/register", app.authHandler.RegisterHandler)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", app.usersHandler.ListUsersHandler)
				r.Put("/status", app.usersHandler.UpdateStatusHandler)
				r.Delete("/{userId}", app.usersHandler.DeleteUserHandler)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", app.groupsHandler.ListGroupsHandler)
				r.Post("/", app.groupsHandler.CreateGroupHandler)
				r.Get("/{groupId}", app.groupsHandler.GetGroupHandler)
				r.Delete("/{groupId}", app.groupsHandler.DeleteGroupHandler)
				r.Post("/{groupId}/members", app.groupsHandler.AddMemberHandler)
				r.Delete("/{groupId}/members/{userId}", app.groupsHandler.RemoveMemberHandler)
			})

			r.Get("/messages", app.messagesHandler.GetHistoryHandler)
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	// the websocket endpoint lives outside /api: no request timeout
	r.Get("/ws", app.chatHandler.ServeWS)

	r.Handle("/metrics", app.metrics.Handler())

	return otelhttp.NewHandler(r, "teamchat",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/ws"
		}),
	)
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		healthHandler.SetHealthy(false)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}

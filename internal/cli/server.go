package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/config"
	"interview-assessment-service/internal/infra/memory"
	"interview-assessment-service/internal/infra/postgres"
	infraredis "interview-assessment-service/internal/infra/redis"
	"interview-assessment-service/internal/logger"
	"interview-assessment-service/internal/metrics"
	transport "interview-assessment-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.Server.Port = portFlag
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	application := fx.New(
		fx.Supply(cfg),
		fx.Provide(logger.New),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newRepositories,
			newRedisClient,
			newQuestionReader,
			newFeedPresence,
			newResolver,
			metrics.NewCollector,
			app.NewFeedHub,
		),
		fx.Provide(
			app.NewCatalogService,
			newLedgerService,
			app.NewQuestionService,
			app.NewInterviewService,
			app.NewAssignmentService,
		),
		fx.Provide(newHandler, newRouter, newHTTPServer),
		fx.Invoke(func(*http.Server) {}),
	)

	if err := application.Start(ctx); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	case <-application.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return application.Stop(shutdownCtx)
}

type healthChecks []func(context.Context) error

type repositories struct {
	fx.Out

	Tests      app.TestRepository
	Attempts   app.AttemptRepository
	Interviews app.InterviewRepository
	Questions  app.QuestionRepository
	Loader     memory.QuestionLoader
	Health     healthChecks
}

// newRepositories picks Postgres when a URL is configured and falls back to
// in-process stores otherwise. Pending migrations run before serving.
func newRepositories(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (repositories, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("postgres url not configured, using in-memory stores")
		interviews := memory.NewInterviewStore()
		questions := memory.NewQuestionStore()
		return repositories{
			Tests:      memory.NewTestStore(interviews),
			Attempts:   memory.NewAttemptStore(),
			Interviews: interviews,
			Questions:  questions,
			Loader:     questions,
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := runMigrations(ctx, cfg, log); err != nil {
		return repositories{}, err
	}

	db := postgres.Open(cfg.Postgres.URL)
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return db.Close()
		},
	})

	questions := postgres.NewQuestionStore(pool)
	return repositories{
		Tests:      postgres.NewTestStore(db),
		Attempts:   postgres.NewAttemptStore(db),
		Interviews: postgres.NewInterviewStore(db),
		Questions:  questions,
		Loader:     questions,
		Health:     healthChecks{db.PingContext},
	}, nil
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	return client
}

func newQuestionReader(cfg config.Config, client *redis.Client, loader memory.QuestionLoader) app.QuestionReader {
	ttl := config.TTLDuration(cfg.Questions.CacheTTL, 10*time.Minute)
	if client != nil {
		return infraredis.NewQuestionCache(client, loader, ttl)
	}
	return memory.NewQuestionCache(loader, ttl)
}

func newFeedPresence(cfg config.Config, client *redis.Client) transport.FeedPresence {
	if client == nil {
		return nil
	}
	return infraredis.NewFeedPresence(client, config.TTLDuration(cfg.Redis.TTL, time.Hour))
}

func newResolver(cfg config.Config) (auth.Resolver, error) {
	var chain auth.Chain
	if len(cfg.Auth.DevTokens) > 0 {
		chain = append(chain, auth.StaticResolver(cfg.Auth.DevTokens))
	}
	if cfg.Auth.JWTSecret != "" {
		jwtResolver, err := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			return nil, err
		}
		chain = append(chain, jwtResolver)
	}
	if len(chain) == 0 {
		return nil, errors.New("auth: configure jwtSecret or devTokens")
	}
	return chain, nil
}

func newLedgerService(cfg config.Config, tests app.TestRepository, attempts app.AttemptRepository, collector *metrics.Collector, log *zap.Logger) *app.LedgerService {
	ledger := app.NewLedgerService(tests, attempts, app.LedgerConfig{
		Policy: app.AttemptPolicy(cfg.Attempts.Policy),
		Grace:  config.TTLDuration(cfg.Attempts.Grace, 30*time.Second),
	}, log)
	ledger.SetObserver(collector)
	return ledger
}

type handlerParams struct {
	fx.In

	Catalog    *app.CatalogService
	Ledger     *app.LedgerService
	Questions  *app.QuestionService
	Interviews *app.InterviewService
	Assignment *app.AssignmentService
	Presence   transport.FeedPresence
	Log        *zap.Logger
}

func newHandler(p handlerParams) *transport.Handler {
	return transport.NewHandler(transport.Services{
		Catalog:    p.Catalog,
		Ledger:     p.Ledger,
		Questions:  p.Questions,
		Interviews: p.Interviews,
		Assignment: p.Assignment,
	}, p.Presence, p.Log)
}

type routerParams struct {
	fx.In

	Config    config.Config
	Handler   *transport.Handler
	Resolver  auth.Resolver
	Collector *metrics.Collector
	Health    healthChecks
	Log       *zap.Logger
}

func newRouter(p routerParams) http.Handler {
	return transport.NewRouter(transport.RouterConfig{
		Mode:        p.Config.Server.Mode,
		CORSOrigins: p.Config.Server.CORSOrigins,
		Health:      p.Health,
	}, p.Handler, p.Resolver, p.Collector, p.Log)
}

func newHTTPServer(lc fx.Lifecycle, cfg config.Config, handler http.Handler, log *zap.Logger) *http.Server {
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			log.Info("starting interview assessment service", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return server.Shutdown(ctx)
		},
	})
	return server
}

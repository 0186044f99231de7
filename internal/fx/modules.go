package fx

import (
	"context"
	"database/sql"
	"net/http"

	"cricket-score/internal/auth"
	"cricket-score/internal/config"
	"cricket-score/internal/constants"
	"cricket-score/internal/database"
	"cricket-score/internal/db"
	"cricket-score/internal/live"
	"cricket-score/internal/logger"
	"cricket-score/internal/repository"
	"cricket-score/internal/scoring"
	"cricket-score/internal/server"
	"cricket-score/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideHub runs the hub loop for the lifetime of the app.
func ProvideHub(lc fx.Lifecycle, logger zerolog.Logger) *live.Hub {
	hub := live.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return hub
}

// ProvideSinks builds the optional redis stream and webhook sinks from config.
func ProvideSinks(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) ([]live.Sink, error) {
	var sinks []live.Sink
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DialTimeout)
		defer cancel()
		client, err := live.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		sinks = append(sinks, live.NewRedisSink(client))
		logger.Info().Str("stream", constants.MatchStream).Msg("redis sink enabled")
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, live.NewWebhookSink(cfg.WebhookURL))
		logger.Info().Msg("webhook sink enabled")
	}
	return sinks, nil
}

func closeDatabaseOnStop(lc fx.Lifecycle, sqlDB *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

func ProvideRosterService(roster *repository.RosterRepository, cfg *config.Config, logger zerolog.Logger) *service.RosterService {
	return service.NewRosterService(roster, cfg.DefaultMaxOvers, logger)
}

// ProvideLiveHandler serves viewers until the app stops.
func ProvideLiveHandler(lc fx.Lifecycle, hub *live.Hub, matchSvc *service.MatchService, cfg *config.Config, logger zerolog.Logger) *live.Handler {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return live.NewHandler(ctx, hub, matchSvc.Exists, cfg.CORSOrigin, logger)
}

func ProvideHTTPHandler(scorer *server.ScorerServer, authSrv *server.AuthServer, issuer *auth.Issuer, ws *live.Handler, cfg *config.Config, logger zerolog.Logger) http.Handler {
	return server.NewHandler(scorer, authSrv, issuer, ws, cfg, logger)
}

// CoreModule is everything the CLI commands share: storage, rules, services
// and the live fan-out.
var CoreModule = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Invoke(closeDatabaseOnStop),
	// repos
	fx.Provide(repository.NewRosterRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewStatsRepository),
	// rules
	fx.Provide(scoring.New),
	fx.Provide(service.NewMatchLocks),
	// live
	fx.Provide(ProvideHub),
	fx.Provide(ProvideSinks),
	fx.Provide(fx.Annotate(live.NewBroadcaster, fx.As(new(service.Publisher)))),
	// svc
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewStandingsService),
	fx.Provide(ProvideRosterService),
)

// Module adds the RPC and websocket surface on top of CoreModule.
var Module = fx.Options(
	CoreModule,
	fx.Provide(auth.NewIssuer),
	fx.Provide(server.NewScorerServer),
	fx.Provide(server.NewAuthServer),
	fx.Provide(ProvideLiveHandler),
	fx.Provide(ProvideHTTPHandler),
)

package server

import (
	"context"
	"net/http"
	"strings"

	"cricket-score/internal/auth"
	"cricket-score/internal/config"
	"cricket-score/internal/middleware"

	"connectrpc.com/connect"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	ScorerPath = "/cricket.v1.Scorer/"
	AuthPath   = "/cricket.v1.Auth/"
	LivePath   = "GET /ws/matches/{id}"
)

const (
	StartMatchProcedure          = ScorerPath + "StartMatch"
	SetBowlerProcedure           = ScorerPath + "SetBowler"
	ResolveNewBatterProcedure    = ScorerPath + "ResolveNewBatter"
	ResolveOpenersProcedure      = ScorerPath + "ResolveOpeners"
	ApplyBallProcedure           = ScorerPath + "ApplyBall"
	GetMatchProcedure            = ScorerPath + "GetMatch"
	GetChaseInfoProcedure        = ScorerPath + "GetChaseInfo"
	GetScorecardProcedure        = ScorerPath + "GetScorecard"
	GetInningsProcedure          = ScorerPath + "GetInnings"
	GetTotalsProcedure           = ScorerPath + "GetTotals"
	GetNewBatterOptionsProcedure = ScorerPath + "GetNewBatterOptions"
	GetOpenersOptionsProcedure   = ScorerPath + "GetOpenersOptions"
	GetStandingsProcedure        = ScorerPath + "GetStandings"
	GetPlayerLeadersProcedure    = ScorerPath + "GetPlayerLeaders"
	ListMatchesProcedure         = ScorerPath + "ListMatches"
	ListTeamsProcedure           = ScorerPath + "ListTeams"
	ListPlayersProcedure         = ScorerPath + "ListPlayers"
	ListTournamentsProcedure     = ScorerPath + "ListTournaments"
	ListGroupsProcedure          = ScorerPath + "ListGroups"
	RebuildMatchProcedure        = ScorerPath + "RebuildMatch"

	LoginProcedure = AuthPath + "Login"
	MeProcedure    = AuthPath + "Me"
)

// protected procedures need an admin bearer token.
var protected = map[string]bool{
	StartMatchProcedure:       true,
	SetBowlerProcedure:        true,
	ResolveNewBatterProcedure: true,
	ResolveOpenersProcedure:   true,
	ApplyBallProcedure:        true,
	RebuildMatchProcedure:     true,
	MeProcedure:               true,
}

func register[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				ce := toConnectError(err)
				if ce.Code() == connect.CodeInternal {
					zerolog.Ctx(ctx).Error().Err(err).Str("procedure", procedure).Msg("request failed")
				}
				return nil, ce
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	))
}

// NewHandler mounts every procedure and, when ws is non-nil, the live
// channel, behind CORS and request ids.
func NewHandler(scorer *ScorerServer, authSrv *AuthServer, issuer *auth.Issuer, ws http.Handler, cfg *config.Config, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(auth.NewInterceptor(issuer, protected)),
	}

	register(mux, StartMatchProcedure, scorer.StartMatch, opts)
	register(mux, SetBowlerProcedure, scorer.SetBowler, opts)
	register(mux, ResolveNewBatterProcedure, scorer.ResolveNewBatter, opts)
	register(mux, ResolveOpenersProcedure, scorer.ResolveOpeners, opts)
	register(mux, ApplyBallProcedure, scorer.ApplyBall, opts)
	register(mux, GetMatchProcedure, scorer.GetMatch, opts)
	register(mux, GetChaseInfoProcedure, scorer.GetChaseInfo, opts)
	register(mux, GetScorecardProcedure, scorer.GetScorecard, opts)
	register(mux, GetInningsProcedure, scorer.GetInnings, opts)
	register(mux, GetTotalsProcedure, scorer.GetTotals, opts)
	register(mux, GetNewBatterOptionsProcedure, scorer.GetNewBatterOptions, opts)
	register(mux, GetOpenersOptionsProcedure, scorer.GetOpenersOptions, opts)
	register(mux, GetStandingsProcedure, scorer.GetStandings, opts)
	register(mux, GetPlayerLeadersProcedure, scorer.GetPlayerLeaders, opts)
	register(mux, ListMatchesProcedure, scorer.ListMatches, opts)
	register(mux, ListTeamsProcedure, scorer.ListTeams, opts)
	register(mux, ListPlayersProcedure, scorer.ListPlayers, opts)
	register(mux, ListTournamentsProcedure, scorer.ListTournaments, opts)
	register(mux, ListGroupsProcedure, scorer.ListGroups, opts)
	register(mux, RebuildMatchProcedure, scorer.RebuildMatch, opts)
	register(mux, LoginProcedure, authSrv.Login, opts)
	register(mux, MeProcedure, authSrv.Me, opts)

	if ws != nil {
		mux.Handle(LivePath, ws)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigin),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID", "Grpc-Status", "Grpc-Message"},
		AllowCredentials: true,
	})

	return middleware.RequestID(logger)(c.Handler(mux))
}

func splitOrigins(v string) []string {
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

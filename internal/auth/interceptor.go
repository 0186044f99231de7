package auth

import (
	"context"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

// NewInterceptor attaches claims from a valid bearer token to the context and
// rejects calls to protected procedures that lack one.
func NewInterceptor(issuer *Issuer, protected map[string]bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			claims, err := issuer.VerifyHeader(req.Header().Get("Authorization"))
			if err != nil {
				if protected[procedure] {
					zerolog.Ctx(ctx).Warn().Err(err).Str("procedure", procedure).Msg("unauthenticated call")
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				return next(ctx, req)
			}
			return next(WithClaims(ctx, claims), req)
		}
	}
}

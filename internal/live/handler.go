package live

import (
	"context"
	"errors"
	"net/http"

	"cricket-score/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// MatchLookup reports whether a match exists before a viewer is admitted.
type MatchLookup func(ctx context.Context, matchID string) error

type Handler struct {
	hub      *Hub
	ctx      context.Context
	lookup   MatchLookup
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler serves GET /ws/matches/{id}. ctx bounds the client pumps; the
// request context ends as soon as the upgrade returns.
func NewHandler(ctx context.Context, hub *Hub, lookup MatchLookup, allowedOrigin string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		ctx:    ctx,
		lookup: lookup,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		http.Error(w, "match id required", http.StatusBadRequest)
		return
	}
	if h.lookup != nil {
		if err := h.lookup(r.Context(), matchID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "match not found", http.StatusNotFound)
				return
			}
			h.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to look up match")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("match_id", matchID).Msg("websocket upgrade failed")
		return
	}

	c := NewClient(uuid.New().String(), matchID, conn, h.hub, h.logger)
	h.hub.Register(c)

	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	h.logger.Info().Str("client_id", c.ID).Str("match_id", matchID).Msg("viewer connected")
}

package live

import (
	"context"

	"cricket-score/internal/constants"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Broadcaster publishes to the hub and then to every sink. Sink failures are
// logged and never reach the caller.
type Broadcaster struct {
	hub    *Hub
	sinks  []Sink
	logger zerolog.Logger
}

func NewBroadcaster(hub *Hub, sinks []Sink, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, sinks: sinks, logger: logger}
}

// Publish sends msgs in order. Each sink also receives them in order; sinks
// run in parallel with each other.
func (b *Broadcaster) Publish(ctx context.Context, msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	if b.hub != nil {
		hubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.HubPublishTimeout)
		for _, msg := range msgs {
			// a gap would reorder the room, so stop at the first miss
			if !b.hub.Publish(hubCtx, msg) {
				break
			}
		}
		cancel()
	}
	if len(b.sinks) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.SinkTimeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range b.sinks {
		g.Go(func() error {
			for _, msg := range msgs {
				if err := sink.Send(ctx, msg); err != nil {
					b.logger.Warn().
						Err(err).
						Str("sink", sink.Name()).
						Str("match_id", msg.MatchID).
						Str("type", string(msg.Type)).
						Msg("sink publish failed")
					return nil
				}
			}
			return nil
		})
	}
	g.Wait()
}

package viewer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/roomstate"
)

// DefaultPollInterval is how often cross-device viewers re-fetch room state.
const DefaultPollInterval = 500 * time.Millisecond

// Poller drives a State from the remote channel. It is the only way a
// viewer on another device receives anything; there is no push.
type Poller struct {
	client   *roomstate.Client
	state    *State
	roomID   string
	interval time.Duration
	log      *zerolog.Logger
}

// NewPoller builds a poller for roomID. A non-positive interval falls back
// to DefaultPollInterval.
func NewPoller(client *roomstate.Client, state *State, roomID string, interval time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Poller{
		client:   client,
		state:    state,
		roomID:   roomID,
		interval: interval,
		log:      logger,
	}
}

// Run polls until the context is cancelled. A failed poll is an empty
// result, not an error; the viewer just renders what it already has.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap := p.client.Fetch(ctx, p.roomID)
	if snap == nil {
		return
	}
	p.state.ApplyRemote(*snap)
}

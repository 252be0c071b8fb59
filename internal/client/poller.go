package client

import (
	"context"
	"log"
	"time"
)

// Poller watches the noticeboard for changes.  Every interval it asks the
// server for the staleness token and reloads the full character list only
// when the token moved, so an idle board costs one tiny request per tick.
//
// Ticks are handled synchronously inside Run, so at most one request is in
// flight at a time; a tick that fires while the previous one is still
// being served coalesces in the ticker channel.
type Poller struct {
	api      *Client
	view     *BoardView
	interval time.Duration
	lastSeen string

	// OnChange, when set, is called from the polling goroutine after the
	// view is reloaded with fresh content.
	OnChange func(view *BoardView)
}

// NewPoller builds a poller over the given client and view.  A zero or
// negative interval falls back to 25 seconds.
func NewPoller(api *Client, view *BoardView, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 25 * time.Second
	}
	return &Poller{api: api, view: view, interval: interval}
}

// Run loads the board once, then polls until the context is cancelled.
// Transient request failures are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.reload(ctx); err != nil {
		log.Printf("board: initial load failed: %v", err)
	}

	tick := time.NewTicker(p.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			if err := p.check(ctx); err != nil && ctx.Err() == nil {
				log.Printf("board: poll failed: %v", err)
			}
		}
	}
}

// check fetches the staleness token and reloads only when it changed.
func (p *Poller) check(ctx context.Context) error {
	last, err := p.api.LastUpdate(ctx)
	if err != nil {
		return err
	}
	if last == p.lastSeen {
		return nil
	}
	return p.reload(ctx)
}

func (p *Poller) reload(ctx context.Context) error {
	last, err := p.api.LastUpdate(ctx)
	if err != nil {
		return err
	}
	items, err := p.api.Characters(ctx)
	if err != nil {
		return err
	}
	p.view.Load(items)
	p.lastSeen = last
	if p.OnChange != nil {
		p.OnChange(p.view)
	}
	return nil
}

// Package renderer runs the waveform rasterizer on its own actor so the
// UI goroutine never blocks on it.
package renderer

import (
	"time"

	"seischart/render"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
)

const DefaultDebounce = 150 * time.Millisecond

// Request asks the worker to render Context. Requests that arrive while
// one is pending replace it.
type Request struct {
	Context render.Context
}

type flush struct{}

// Renderer coalesces requests and renders at most once per debounce
// interval. Results are handed to deliver, which must not block.
type Renderer struct {
	debounce  time.Duration
	deliver   func(render.Result)
	pending   *render.Context
	scheduled bool
	log       *log.Entry
}

func New(debounce time.Duration, deliver func(render.Result)) actor.Producer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return func() actor.Receiver {
		return &Renderer{
			debounce: debounce,
			deliver:  deliver,
		}
	}
}

func (r *Renderer) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		r.log = log.WithField("pid", c.PID().String())
		r.log.Debug("render worker started")
	case actor.Stopped:
		r.pending = nil
		r.log.Debug("render worker stopped")
	case Request:
		ctx := msg.Context
		r.pending = &ctx
		if !r.scheduled {
			r.scheduled = true
			engine, pid := c.Engine(), c.PID()
			time.AfterFunc(r.debounce, func() {
				engine.Send(pid, flush{})
			})
		}
	case flush:
		r.scheduled = false
		if r.pending == nil {
			return
		}
		ctx := *r.pending
		r.pending = nil
		start := time.Now()
		res, err := render.Render(ctx)
		if err != nil {
			r.log.WithError(err).WithField("request", ctx.RequestID).Warn("render failed")
		} else {
			r.log.WithFields(log.Fields{
				"request": ctx.RequestID,
				"tracks":  len(ctx.Tracks),
				"took":    time.Since(start),
			}).Trace("rendered")
		}
		r.deliver(res)
	}
}

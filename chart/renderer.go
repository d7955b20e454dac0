package chart

import (
	"strconv"
	"sync/atomic"
	"time"

	"seischart/actor/renderer"
	"seischart/render"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
)

// Renderer turns render contexts into results off the caller's goroutine
// when it can. Submit never blocks; results arrive on Results in any
// order and may be dropped in favour of newer ones.
type Renderer interface {
	Submit(c render.Context)
	Results() <-chan render.Result
	Close()
}

// NewRenderer returns a worker backed renderer when engine is set and a
// synchronous one otherwise.
func NewRenderer(engine *actor.Engine, debounce time.Duration) Renderer {
	if engine == nil {
		log.Info("no actor engine available, rendering synchronously")
		return newSyncRenderer()
	}
	return newWorkerRenderer(engine, debounce)
}

// resultQueue holds the newest undelivered result.
type resultQueue struct {
	ch chan render.Result
}

func newResultQueue() resultQueue {
	return resultQueue{ch: make(chan render.Result, 1)}
}

func (q resultQueue) push(r render.Result) {
	for {
		select {
		case q.ch <- r:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

type syncRenderer struct {
	q resultQueue
}

func newSyncRenderer() *syncRenderer {
	return &syncRenderer{q: newResultQueue()}
}

func (r *syncRenderer) Submit(c render.Context) {
	res, err := render.Render(c)
	if err != nil {
		log.WithError(err).WithField("request", c.RequestID).Warn("render failed")
	}
	r.q.push(res)
}

func (r *syncRenderer) Results() <-chan render.Result { return r.q.ch }
func (r *syncRenderer) Close()                        {}

var workerSeq atomic.Uint64

type workerRenderer struct {
	engine *actor.Engine
	pid    *actor.PID
	q      resultQueue
}

func newWorkerRenderer(engine *actor.Engine, debounce time.Duration) *workerRenderer {
	w := &workerRenderer{engine: engine, q: newResultQueue()}
	id := strconv.FormatUint(workerSeq.Add(1), 10)
	w.pid = engine.Spawn(renderer.New(debounce, w.q.push), "renderer", actor.WithID(id))
	return w
}

// Submit sends a deep copy of c. The worker never shares series memory
// with the chart.
func (w *workerRenderer) Submit(c render.Context) {
	w.engine.Send(w.pid, renderer.Request{Context: c.Clone()})
}

func (w *workerRenderer) Results() <-chan render.Result { return w.q.ch }

func (w *workerRenderer) Close() {
	w.engine.Poison(w.pid)
}

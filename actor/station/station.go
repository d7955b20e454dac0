package station

import (
	"time"

	"seischart/actor/publish"
	"seischart/actor/segment"
	"seischart/actor/stat"
	"seischart/event"

	"github.com/anthdm/hollywood/actor"
)

type Options struct {
	Backlog        int
	Intervals      []int64
	StatusInterval time.Duration
}

// Station owns the publish, segment and stat actors of one station and
// routes feed messages to them.
type Station struct {
	id         string
	opts       Options
	statPID    *actor.PID
	segmentPID *actor.PID
	publishPID *actor.PID
}

func New(id string, opts Options) actor.Producer {
	return func() actor.Receiver {
		return &Station{
			id:   id,
			opts: opts,
		}
	}
}

func (s *Station) Receive(c *actor.Context) {
	switch c.Message().(type) {
	case actor.Started:
		s.start(c)
	case event.Packet:
		c.Forward(s.publishPID)
		c.Forward(s.segmentPID)
		c.Forward(s.statPID)
	case event.Heartbeat:
		c.Forward(s.statPID)
	}
}

func (s *Station) start(c *actor.Context) {
	s.publishPID = c.SpawnChild(publish.New(s.id, s.opts.Backlog), "publish", actor.WithID(s.id))
	s.statPID = c.SpawnChild(stat.New(s.id, s.opts.StatusInterval), "stat", actor.WithID(s.id))
	s.segmentPID = c.SpawnChild(segment.New(s.id, s.opts.Intervals), "segment", actor.WithID(s.id))
}

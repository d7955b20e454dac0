package stat

import (
	"cmp"
	"slices"
	"time"

	"seischart/event"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
)

const DefaultInterval = 5 * time.Second

type tick struct{}

type channelStat struct {
	channel event.Channel
	last    int64
	packets int
	gaps    int
}

// Stat tracks packet counts, gaps and latency per channel of a station
// and publishes a Status for each channel every interval.
type Stat struct {
	station    string
	interval   time.Duration
	channels   map[string]*channelStat
	clock      int64
	stopped    bool
	publishPID *actor.PID
	now        func() time.Time
}

func New(station string, interval time.Duration) actor.Producer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return func() actor.Receiver {
		return &Stat{
			station:  station,
			interval: interval,
			channels: make(map[string]*channelStat),
			now:      time.Now,
		}
	}
}

func (s *Stat) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		log.WithField("station", s.station).Debug("stat started")
		s.publishPID = c.Parent().Child("publish/" + s.station)
		s.schedule(c)
	case actor.Stopped:
		s.stopped = true
	case event.Packet:
		s.record(msg)
	case event.Heartbeat:
		s.clock = msg.Unix
	case tick:
		for _, st := range s.Statuses() {
			c.Send(s.publishPID, st)
		}
		s.schedule(c)
	}
}

func (s *Stat) schedule(c *actor.Context) {
	if s.stopped {
		return
	}
	engine, pid := c.Engine(), c.PID()
	time.AfterFunc(s.interval, func() {
		engine.Send(pid, tick{})
	})
}

func (s *Stat) record(p event.Packet) {
	cs, ok := s.channels[p.Channel.Code]
	if !ok {
		cs = &channelStat{channel: p.Channel}
		s.channels[p.Channel.Code] = cs
	}
	if cs.last > 0 && p.SampleRate > 0 {
		period := 1000 / p.SampleRate
		if float64(p.Start-cs.last) > 1.5*period {
			cs.gaps++
			log.WithFields(log.Fields{
				"channel": p.Channel,
				"gap":     time.Duration(p.Start-cs.last) * time.Millisecond,
			}).Debug("gap in feed")
		}
	}
	cs.packets++
	cs.last = max(cs.last, p.End)
}

// Statuses reports every channel seen so far. Latency is measured against
// the last feed heartbeat, or the local clock before the first one.
func (s *Stat) Statuses() []event.Status {
	now := s.clock
	if now == 0 {
		now = s.now().UnixMilli()
	}
	out := make([]event.Status, 0, len(s.channels))
	for _, cs := range s.channels {
		out = append(out, event.Status{
			Channel:    cs.channel,
			Latency:    time.Duration(now-cs.last) * time.Millisecond,
			LastSample: cs.last,
			Packets:    cs.packets,
			Gaps:       cs.gaps,
			Unix:       now,
		})
	}
	slices.SortFunc(out, func(a, b event.Status) int {
		return cmp.Compare(a.Channel.Code, b.Channel.Code)
	})
	return out
}

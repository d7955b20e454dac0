package publish

import (
	"seischart/event"
	"seischart/pkg/ring"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/murmur3"
)

const DefaultBacklog = 256

type Publish struct {
	station string
	backlog int

	subs    map[uint32]map[*actor.PID]bool
	history map[uint32]*ring.Buffer[any]
	ctx     *actor.Context
}

// New returns a publisher for station. The last backlog messages of every
// stream are kept for subscribers asking for a replay. Segment streams keep
// only the newest update of each segment.
func New(station string, backlog int) actor.Producer {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return func() actor.Receiver {
		return &Publish{
			station: station,
			backlog: backlog,
			subs:    make(map[uint32]map[*actor.PID]bool),
			history: make(map[uint32]*ring.Buffer[any]),
		}
	}
}

func (p *Publish) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		p.ctx = c
	case event.PubSub:
		for _, stream := range msg.Streams {
			sub, ok := p.subs[stream]
			if !ok {
				p.subs[stream] = make(map[*actor.PID]bool)
				p.subs[stream][c.Sender()] = true
			} else {
				sub[c.Sender()] = true
			}
			log.WithFields(log.Fields{"station": p.station, "sub": c.Sender(), "key": stream}).Debug("new subscription")
			if msg.Replay {
				p.replay(c.Sender(), stream)
			}
		}
	case event.PubUnsub:
		for _, stream := range msg.Streams {
			subs, ok := p.subs[stream]
			if ok {
				delete(subs, c.Sender())
				log.WithFields(log.Fields{"station": p.station, "sub": c.Sender(), "key": stream}).Debug("removed subscription")
			}
		}
	case event.Packet:
		p.broadcast(msg.Channel, event.StreamPackets, msg)
	case event.Segment:
		p.broadcast(msg.Channel, event.StreamSegments, msg)
	case event.Status:
		p.broadcast(msg.Channel, event.StreamStatus, msg)
	}
}

func (p *Publish) broadcast(ch event.Channel, stream event.Stream, msg event.Intervaler) {
	key := CreateRouteKey(ch, stream, msg.GetInterval())
	h, ok := p.history[key]
	if !ok {
		h = ring.NewBuffer[any](p.backlog)
		p.history[key] = h
	}
	if seg, ok := msg.(event.Segment); ok && sameSegment(h, seg) {
		// Every update of a segment carries all its samples so far, so
		// only the newest needs to be kept for a replay.
		h.SetLast(msg)
	} else {
		h.Push(msg)
	}
	subs, ok := p.subs[key]
	if ok {
		for pid := range subs {
			p.ctx.Send(pid, msg)
		}
	}
}

func sameSegment(h *ring.Buffer[any], seg event.Segment) bool {
	last, ok := h.Last()
	if !ok {
		return false
	}
	prev, ok := last.(event.Segment)
	return ok && prev.Segment.Start == seg.Segment.Start
}

func (p *Publish) replay(pid *actor.PID, key uint32) {
	h, ok := p.history[key]
	if !ok {
		return
	}
	for _, msg := range h.Items() {
		p.ctx.Send(pid, msg)
	}
}

func CreateRouteKey(ch event.Channel, stream event.Stream, interval int64) uint32 {
	key := []byte(ch.Network)
	key = append(key, '.')
	key = append(key, ch.Station...)
	key = append(key, '.')
	key = append(key, ch.Code...)
	key = append(key, byte(0xff&interval), byte(0xff&(interval>>8)), byte(0xff&(interval>>16)), byte(0xff&(interval>>24)))
	key = append(key, byte(0xff&stream), byte(0xff&(stream>>8)), byte(0xff&(stream>>16)), byte(0xff&(stream>>24)))
	return murmur3.Sum32Bytes(key)
}

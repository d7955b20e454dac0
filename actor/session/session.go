package session

import (
	act "seischart/actor"
	"seischart/actor/publish"
	"seischart/event"

	"github.com/anthdm/hollywood/actor"
)

type Stream struct {
	Channel  event.Channel
	Stream   event.Stream
	Interval int64
}

// Session subscribes to the streams of one station and hands every
// message it receives to eventCh. eventCh is closed when the session
// stops.
type Session struct {
	station    string
	eventCh    chan any
	streams    []Stream
	replay     bool
	publishPID *actor.PID
}

func New(eventCh chan any, station string, streams []Stream, replay bool) actor.Producer {
	return func() actor.Receiver {
		return &Session{
			station:    station,
			eventCh:    eventCh,
			streams:    streams,
			replay:     replay,
			publishPID: act.GetPublishPID(station),
		}
	}
}

func (s *Session) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		c.Send(s.publishPID, event.PubSub{Streams: s.keys(), Replay: s.replay})
	case actor.Stopped:
		c.Send(s.publishPID, event.PubUnsub{Streams: s.keys()})
		close(s.eventCh)
	case event.Packet, event.Segment, event.Status:
		s.eventCh <- msg
	}
}

func (s *Session) keys() []uint32 {
	keys := make([]uint32, len(s.streams))
	for i := 0; i < len(s.streams); i++ {
		stream := s.streams[i]
		keys[i] = publish.CreateRouteKey(stream.Channel, stream.Stream, stream.Interval)
	}
	return keys
}

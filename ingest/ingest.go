// Package ingest moves live station streams from the actor engine into
// the charts. Everything here runs on the UI goroutine.
package ingest

import (
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"seischart/actor/session"
	"seischart/chart"
	"seischart/event"
	"seischart/pkg/series"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultKeep   = 30 * time.Minute
	eventCapacity = 1024
)

// Streams lists the subscriptions that feed a helicorder of heli at
// interval minutes and a seismogram of seis. A zero heli leaves the
// helicorder out.
func Streams(heli event.Channel, interval int, seis []event.Channel) []session.Stream {
	var streams []session.Stream
	if heli != (event.Channel{}) {
		streams = append(streams,
			session.Stream{Channel: heli, Stream: event.StreamSegments, Interval: int64(interval)},
			session.Stream{Channel: heli, Stream: event.StreamStatus},
		)
	}
	for _, ch := range seis {
		streams = append(streams, session.Stream{Channel: ch, Stream: event.StreamPackets})
		if ch != heli {
			streams = append(streams, session.Stream{Channel: ch, Stream: event.StreamStatus})
		}
	}
	return streams
}

type Options struct {
	// Channel is shown on the helicorder.
	Channel event.Channel
	// Keep bounds the history held per seismogram channel.
	Keep   time.Duration
	Follow bool
}

// Sink applies feed messages to a helicorder and a seismogram. Either
// chart may be nil.
type Sink struct {
	heli   *chart.Helicorder
	seis   *chart.Seismogram
	opts   Options
	status map[string]event.Status
	latest int64
}

func NewSink(heli *chart.Helicorder, seis *chart.Seismogram, opts Options) *Sink {
	if opts.Keep <= 0 {
		opts.Keep = DefaultKeep
	}
	return &Sink{
		heli:   heli,
		seis:   seis,
		opts:   opts,
		status: make(map[string]event.Status),
	}
}

func (s *Sink) Follow() bool          { return s.opts.Follow }
func (s *Sink) SetFollow(follow bool) { s.opts.Follow = follow }

// Latest is the newest sample time seen on the seismogram channels.
func (s *Sink) Latest() int64 { return s.latest }

func (s *Sink) Status(ch event.Channel) (event.Status, bool) {
	st, ok := s.status[ch.String()]
	return st, ok
}

func (s *Sink) Handle(msg any) {
	switch msg := msg.(type) {
	case event.Segment:
		s.handleSegment(msg)
	case event.Packet:
		s.handlePacket(msg)
	case event.Status:
		s.status[msg.Channel.String()] = msg
	}
}

func (s *Sink) handleSegment(seg event.Segment) {
	if s.heli == nil || seg.Channel != s.opts.Channel || int(seg.Interval) != s.heli.Interval() {
		return
	}
	// Only a view showing the newest row moves on with the feed.
	if s.opts.Follow && seg.Segment.Start == s.heli.Extent().End {
		s.heli.SetOffsetDate(seg.Segment.End)
	}
	s.heli.SetTrackData(seg.Segment, seg.Data)
}

func (s *Sink) handlePacket(p event.Packet) {
	if s.seis == nil || !slices.Contains(s.seis.Channels(), p.Channel.Code) {
		return
	}
	d, ok := s.seis.ChannelData(p.Channel.Code)
	if !ok {
		d = series.Empty()
	}
	if d.Append(p.Index, p.Values) == 0 {
		return
	}
	s.latest = max(s.latest, int64(d.End()))
	cutoff := d.End() - float64(s.opts.Keep.Milliseconds())
	if d.Start() < cutoff {
		d = d.Between(cutoff, d.End()+1)
	}
	s.seis.SetChannelData(p.Channel.Code, d)
	if s.opts.Follow {
		s.seis.ScrollTo(s.latest - s.seis.Extent().Duration())
	}
}

var pumpSeq atomic.Uint64

// Pump owns the session of one station and hands its messages to the UI
// goroutine.
type Pump struct {
	engine  *actor.Engine
	station string
	events  chan any
	pid     *actor.PID
}

func NewPump(engine *actor.Engine, station string) *Pump {
	return &Pump{
		engine:  engine,
		station: station,
	}
}

// Subscribe replaces the current session with one for streams. The new
// session replays the publisher backlog.
func (p *Pump) Subscribe(streams []session.Stream) {
	p.Stop()
	p.events = make(chan any, eventCapacity)
	id := p.station + "-" + strconv.FormatUint(pumpSeq.Add(1), 10)
	p.pid = p.engine.Spawn(session.New(p.events, p.station, streams, true), "session", actor.WithID(id))
	log.WithFields(log.Fields{"station": p.station, "streams": len(streams)}).Debug("subscribed")
}

// Drain hands at most limit pending messages to fn without blocking and
// returns how many it handled.
func (p *Pump) Drain(fn func(any), limit int) int {
	n := 0
	for n < limit && p.events != nil {
		select {
		case msg, ok := <-p.events:
			if !ok {
				p.events = nil
				return n
			}
			fn(msg)
			n++
		default:
			return n
		}
	}
	return n
}

// Stop ends the current session. Messages still queued are discarded.
func (p *Pump) Stop() {
	if p.pid == nil {
		return
	}
	old := p.events
	// The session may be blocked on a full channel. Keep reading until it
	// closes the channel on stop.
	go func() {
		for range old {
		}
	}()
	p.engine.Poison(p.pid)
	p.pid = nil
	p.events = nil
}

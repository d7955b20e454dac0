package segment

import (
	"math"

	"seischart/event"
	"seischart/pkg/series"

	"github.com/anthdm/hollywood/actor"
	log "github.com/sirupsen/logrus"
)

// DefaultIntervals are the helicorder row lengths in minutes sampled when
// none are configured.
var DefaultIntervals = []int64{15, 30, 60}

type samplerKey struct {
	code     string
	interval int64
}

// Segment cuts the packets of one station into helicorder segments and
// publishes the running segment after every packet.
type Segment struct {
	station    string
	intervals  []int64
	publishPID *actor.PID
	samplers   map[samplerKey]*SegmentSampler
	ctx        *actor.Context
}

func New(station string, intervals []int64) actor.Producer {
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	return func() actor.Receiver {
		return &Segment{
			station:   station,
			intervals: intervals,
			samplers:  make(map[samplerKey]*SegmentSampler),
		}
	}
}

func (s *Segment) Receive(c *actor.Context) {
	switch msg := c.Message().(type) {
	case actor.Started:
		s.ctx = c
		s.publishPID = c.Parent().Child("publish/" + s.station)
	case event.Packet:
		for _, interval := range s.intervals {
			key := samplerKey{code: msg.Channel.Code, interval: interval}
			sampler, ok := s.samplers[key]
			if !ok {
				sampler = NewSegmentSampler(msg.Channel, interval, s.onSegment)
				s.samplers[key] = sampler
			}
			sampler.ProcessPacket(msg)
		}
	}
}

func (s *Segment) onSegment(seg event.Segment) {
	s.ctx.Send(s.publishPID, seg)
}

type SegmentSampler struct {
	channel    event.Channel
	interval   int64
	current    series.Segment
	data       *series.Data
	handleFunc func(event.Segment)
}

func NewSegmentSampler(ch event.Channel, interval int64, fn func(event.Segment)) *SegmentSampler {
	return &SegmentSampler{
		channel:    ch,
		interval:   interval,
		handleFunc: fn,
	}
}

// ProcessPacket appends the samples of p to the running segment. A
// segment is emitted with Final set when the packet crosses its end, and
// the running segment is emitted once the packet is consumed. Samples
// older than the running segment are dropped.
func (s *SegmentSampler) ProcessPacket(p event.Packet) {
	d := s.interval * 60_000
	n := min(len(p.Index), len(p.Values))
	for i := 0; i < n; {
		seg := series.SegmentAt(int64(p.Index[i]), d)
		j := i
		for j < n && int64(p.Index[j]) < seg.End {
			j++
		}
		switch {
		case s.data == nil:
			s.current = seg
			s.data = series.Empty()
		case seg.Start >= s.current.End:
			s.emit(true)
			s.current = seg
			s.data = series.Empty()
		case seg.Start < s.current.Start:
			log.WithFields(log.Fields{
				"channel": s.channel,
				"segment": seg,
				"samples": j - i,
			}).Debug("dropping late samples")
			i = j
			continue
		}
		s.markGap(p.Index[i], p.SampleRate)
		s.data.Append(p.Index[i:j], p.Values[i:j])
		i = j
	}
	if s.data != nil {
		s.emit(false)
	}
}

// markGap inserts a NaN sample when t leaves a hole of more than one and
// a half sample periods after the last sample.
func (s *SegmentSampler) markGap(t, rate float64) {
	if rate <= 0 || s.data.Len() == 0 {
		return
	}
	period := 1000 / rate
	last := s.data.End()
	if t-last > 1.5*period {
		s.data.Append([]float64{last + period}, []float64{math.NaN()})
	}
}

func (s *SegmentSampler) emit(final bool) {
	s.handleFunc(event.Segment{
		Channel:  s.channel,
		Interval: s.interval,
		Segment:  s.current,
		Data:     s.data.Snapshot(),
		Final:    final,
	})
}

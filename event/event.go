package event

import (
	"fmt"
	"strings"
	"time"

	"seischart/pkg/series"
	"seischart/pkg/wire"
)

// Channel identifies one sensor component, e.g. "IU.ANMO.BHZ".
type Channel struct {
	Network string
	Station string
	Code    string
}

func (c Channel) String() string {
	return fmt.Sprintf("%s.%s.%s", c.Network, c.Station, c.Code)
}

// StationID is the network and station part, e.g. "IU.ANMO".
func (c Channel) StationID() string {
	return c.Network + "." + c.Station
}

func NewChannel(network, station, code string) Channel {
	return Channel{
		Network: network,
		Station: station,
		Code:    code,
	}
}

func ParseChannel(s string) (Channel, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Channel{}, fmt.Errorf("invalid channel id %q", s)
	}
	return NewChannel(parts[0], parts[1], parts[2]), nil
}

// Packet is a block of samples as received from the feed.
type Packet struct {
	Channel    Channel
	Source     string
	Start      int64
	End        int64
	SampleRate float64
	Index      []float64
	Values     []float64
}

func (p Packet) GetInterval() int64 { return 0 }

func PacketFromFrame(f *wire.Frame) (Packet, error) {
	ch, err := ParseChannel(f.ChannelID)
	if err != nil {
		return Packet{}, err
	}
	return Packet{
		Channel:    ch,
		Source:     f.SourceID,
		Start:      int64(f.Start),
		End:        int64(f.End),
		SampleRate: f.SampleRate,
		Index:      f.Index,
		Values:     f.Values,
	}, nil
}

// Segment is the running content of one helicorder row. Interval is the
// segment length in minutes.
type Segment struct {
	Channel  Channel
	Interval int64
	Segment  series.Segment
	Data     *series.Data
	// Final is set once the feed moved past the segment end.
	Final bool
}

func (s Segment) GetInterval() int64 { return s.Interval }

type Status struct {
	Channel    Channel
	Latency    time.Duration
	LastSample int64
	Packets    int
	Gaps       int
	Unix       int64
}

func (s Status) GetInterval() int64 { return 0 }

// Heartbeat carries the feed server clock in epoch milliseconds.
type Heartbeat struct {
	Unix int64
}

type Stream int64

const (
	StreamPackets Stream = iota
	StreamSegments
	StreamStatus
)

type PubSub struct {
	Streams []uint32
	// Replay asks for the buffered backlog of the subscribed streams.
	Replay bool
}

type PubUnsub struct {
	Streams []uint32
}

type Intervaler interface {
	GetInterval() int64
}

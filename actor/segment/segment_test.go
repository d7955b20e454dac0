package segment

import (
	"math"
	"testing"

	"seischart/event"
)

var hhz = event.NewChannel("GE", "WLF", "HHZ")

// packet holds one sample a second from start, inclusive, to end, exclusive.
func packet(start, end int64) event.Packet {
	p := event.Packet{Channel: hhz, Start: start, End: end - 1000, SampleRate: 1}
	for t := start; t < end; t += 1000 {
		p.Index = append(p.Index, float64(t))
		p.Values = append(p.Values, float64(t/1000))
	}
	return p
}

func collect() (*[]event.Segment, func(event.Segment)) {
	var got []event.Segment
	return &got, func(s event.Segment) { got = append(got, s) }
}

func TestSamplerRunningSegment(t *testing.T) {
	got, fn := collect()
	s := NewSegmentSampler(hhz, 1, fn)
	s.ProcessPacket(packet(0, 10_000))
	s.ProcessPacket(packet(10_000, 20_000))
	if len(*got) != 2 {
		t.Fatalf("expected one segment per packet, got %d", len(*got))
	}
	last := (*got)[1]
	if last.Final || last.Segment.Start != 0 || last.Segment.End != 60_000 || last.Interval != 1 {
		t.Errorf("unexpected segment %+v", last)
	}
	if last.Data.Len() != 20 || last.Data.Min != 0 || last.Data.Max != 19 {
		t.Errorf("unexpected data: %d samples [%f, %f]", last.Data.Len(), last.Data.Min, last.Data.Max)
	}
	first := (*got)[0].Data
	if first.Len() != 10 || first.Max != 9 || first.End() != 9_000 {
		t.Error("emitted segments must not change as the sampler appends")
	}
}

func TestSamplerCrossesSegmentEnd(t *testing.T) {
	got, fn := collect()
	s := NewSegmentSampler(hhz, 1, fn)
	s.ProcessPacket(packet(50_000, 70_000))
	if len(*got) != 2 {
		t.Fatalf("expected a final and a running segment, got %d", len(*got))
	}
	final, running := (*got)[0], (*got)[1]
	if !final.Final || final.Segment.End != 60_000 || final.Data.Len() != 10 {
		t.Errorf("unexpected final segment %+v", final)
	}
	if running.Final || running.Segment.Start != 60_000 || running.Data.Len() != 10 || running.Data.Start() != 60_000 {
		t.Errorf("unexpected running segment %+v", running)
	}
}

func TestSamplerDropsLateSamples(t *testing.T) {
	got, fn := collect()
	s := NewSegmentSampler(hhz, 1, fn)
	s.ProcessPacket(packet(60_000, 65_000))
	s.ProcessPacket(packet(10_000, 20_000))
	last := (*got)[len(*got)-1]
	if last.Segment.Start != 60_000 || last.Data.Len() != 5 {
		t.Errorf("late samples changed the running segment: %+v", last)
	}
}

func TestSamplerMarksGaps(t *testing.T) {
	got, fn := collect()
	s := NewSegmentSampler(hhz, 1, fn)
	s.ProcessPacket(packet(0, 5_000))
	s.ProcessPacket(packet(10_000, 12_000))
	d := (*got)[1].Data
	if d.Len() != 8 {
		t.Fatalf("expected 5 + gap + 2 samples, got %d", d.Len())
	}
	if d.Index[5] != 5_000 || !math.IsNaN(d.Values[5]) {
		t.Errorf("expected a NaN at 5000, got %f=%f", d.Index[5], d.Values[5])
	}
	if d.Count != 7 {
		t.Errorf("gap counted as a sample: %d", d.Count)
	}
}

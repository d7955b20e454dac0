package ingest

import (
	"testing"

	"seischart/config"
	"seischart/render"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	c, err := config.Parse([]byte(`
helicorder:
  interval: 15
  scaling: local
  min_scale: 0.5
stations:
  - network: GE
    code: WLF
    channels: [HHZ, HHN]
  - network: IU
    code: ANMO
    channels: [BHZ]
`))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHelicorderOptions(t *testing.T) {
	o := HelicorderOptions(testConfig(t))
	if o.Interval != 15 || o.Duration != 12 || o.Render.Scaling != render.ScalingLocal {
		t.Errorf("unexpected options %+v", o)
	}
	if !o.Render.Quiet.Enabled || o.Render.Quiet.MinScale != 0.5 {
		t.Errorf("quiet range not mapped: %+v", o.Render.Quiet)
	}
}

func TestFeedOptions(t *testing.T) {
	c := testConfig(t)
	o := FeedOptions(c)
	if len(o.Channels) != 3 || o.Channels[2].String() != "IU.ANMO.BHZ" {
		t.Errorf("unexpected channels %v", o.Channels)
	}
	if len(o.Station.Intervals) != 3 || o.Station.Intervals[1] != 30 || o.Station.Backlog != 256 {
		t.Errorf("unexpected station options %+v", o.Station)
	}
	s := SeismogramOptions(c, c.Stations[0])
	if len(s.Channels) != 2 || s.Channels[0] != "HHZ" || s.Gap != 4 {
		t.Errorf("unexpected seismogram options %+v", s)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
log:
  level: debug
render:
  debounce: 300ms
helicorder:
  interval: 15
  scaling: local
stations:
  - network: VG
    code: MEPAS
    channels: [HHZ, HHN, HHE]
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Log.Level != "debug" || c.Render.Debounce != 300*time.Millisecond {
		t.Errorf("unexpected values %+v %+v", c.Log, c.Render)
	}
	if c.Helicorder.Interval != 15 || c.Helicorder.Duration != 12 || c.Helicorder.Scaling != "local" {
		t.Errorf("unexpected helicorder %+v", c.Helicorder)
	}
	if len(c.Stations) != 1 || len(c.Stations[0].Channels) != 3 {
		t.Errorf("unexpected stations %+v", c.Stations)
	}
	if c.Feed.Backlog != 256 {
		t.Errorf("default backlog lost, got %d", c.Feed.Backlog)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, doc := range []string{
		"helicorder: {interval: 0}",
		"helicorder: {scaling: loud}",
		"log: {level: chatty}",
		"render: [1, 2]",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
	_, err := Parse([]byte("helicorder: {duration: -1}"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Helicorder.Interval != Default().Helicorder.Interval {
		t.Errorf("expected defaults")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	if err := os.WriteFile(path, []byte("helicorder: {duration: 24}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Helicorder.Duration != 24 {
		t.Errorf("expected duration 24, got %d", c.Helicorder.Duration)
	}
}

func TestApply(t *testing.T) {
	c := Default()
	c.Stations = []Station{{Network: "VG", Code: "MEPAS"}}
	interval := 60
	utc := true
	n, err := c.Apply(Patch{Interval: &interval, UseUTC: &utc})
	if err != nil {
		t.Fatal(err)
	}
	if n.Helicorder.Interval != 60 || !n.Helicorder.UseUTC {
		t.Errorf("patch not applied: %+v", n.Helicorder)
	}
	if n.Helicorder.Duration != c.Helicorder.Duration {
		t.Errorf("untouched field changed")
	}
	n.Stations[0].Code = "X"
	if c.Stations[0].Code != "MEPAS" {
		t.Errorf("Apply shares stations with the original")
	}

	bad := "loud"
	if _, err := c.Apply(Patch{Scaling: &bad}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

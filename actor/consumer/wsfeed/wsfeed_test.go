package wsfeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	act "seischart/actor"
	"seischart/actor/session"
	"seischart/actor/station"
	"seischart/event"
	"seischart/pkg/wire"

	"github.com/anthdm/hollywood/actor"
	"github.com/gorilla/websocket"
	"github.com/valyala/fastjson"
)

var hhz = event.NewChannel("GE", "WLF", "HHZ")

func TestSubscribeMessage(t *testing.T) {
	msg := SubscribeMessage([]event.Channel{hhz, event.NewChannel("GE", "WLF", "HHN")})
	v, err := fastjson.ParseBytes(msg)
	if err != nil {
		t.Fatalf("invalid json %s: %v", msg, err)
	}
	if string(v.GetStringBytes("action")) != "subscribe" {
		t.Errorf("unexpected action in %s", msg)
	}
	chans := v.GetArray("channels")
	if len(chans) != 2 || string(chans[0].GetStringBytes()) != "GE.WLF.HHZ" {
		t.Errorf("unexpected channels in %s", msg)
	}
}

func TestParseControl(t *testing.T) {
	var p fastjson.Parser
	tests := []struct {
		in   string
		want Control
		err  bool
	}{
		{in: `{"type":"heartbeat","time":1709294400000}`, want: Control{Type: "heartbeat", Time: 1709294400000}},
		{in: `{"type":"error","message":"unknown channel"}`, want: Control{Type: "error", Message: "unknown channel"}},
		{in: `{"time":1}`, err: true},
		{in: `not json`, err: true},
	}
	for _, tt := range tests {
		got, err := ParseControl(&p, []byte(tt.in))
		if (err != nil) != tt.err {
			t.Errorf("ParseControl(%s) error = %v", tt.in, err)
			continue
		}
		if !tt.err && (got.Type != tt.want.Type || got.Time != tt.want.Time || got.Message != tt.want.Message) {
			t.Errorf("ParseControl(%s) = %+v", tt.in, got)
		}
	}
	got, _ := ParseControl(&p, []byte(`{"type":"subscribed","channels":["GE.WLF.HHZ"]}`))
	if len(got.Channels) != 1 || got.Channels[0] != "GE.WLF.HHZ" {
		t.Errorf("unexpected channels %v", got.Channels)
	}
}

func TestFeedRoutesFramesToSessions(t *testing.T) {
	frame, err := wire.Encode(&wire.Frame{
		Header: wire.Header{ChannelID: hhz.String(), SourceID: "test", Start: 1000, End: 2000, SampleRate: 1},
		Index:  []float64{1000, 2000},
		Values: []float64{3, 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	ready := make(chan struct{})
	subscribed := make(chan string, 4)
	var upgrader websocket.Upgrader
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		subscribed <- string(msg)
		<-ready
		ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"heartbeat","time":2500}`))
		ws.WriteMessage(websocket.BinaryMessage, []byte("short"))
		ws.WriteMessage(websocket.BinaryMessage, frame)
		// Hold the connection until the client goes away.
		ws.ReadMessage()
	}))
	defer srv.Close()

	engine, err := actor.NewEngine(actor.NewEngineConfig())
	if err != nil {
		t.Fatal(err)
	}
	feed := engine.Spawn(New(Options{
		URL:      "ws" + strings.TrimPrefix(srv.URL, "http"),
		Channels: []event.Channel{hhz},
		Station:  station.Options{StatusInterval: time.Hour},
	}), act.FeedKind, actor.WithID(act.FeedID))
	defer engine.Poison(feed)

	events := make(chan any, 16)
	engine.Spawn(session.New(events, hhz.StationID(), []session.Stream{
		{Channel: hhz, Stream: event.StreamPackets},
	}, false), "session", actor.WithID("test"))
	close(ready)

	select {
	case msg := <-subscribed:
		if !strings.Contains(msg, "GE.WLF.HHZ") {
			t.Errorf("unexpected subscribe message %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("feed never subscribed")
	}
	select {
	case msg := <-events:
		p, ok := msg.(event.Packet)
		if !ok || p.Channel != hhz || p.Source != "test" || p.Start != 1000 || p.Values[1] != 4 {
			t.Errorf("unexpected message %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("packet never reached the session")
	}
}

package wsfeed

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"seischart/actor/station"
	"seischart/event"
	"seischart/pkg/wire"

	"github.com/anthdm/hollywood/actor"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

type Options struct {
	URL      string
	Channels []event.Channel
	Station  station.Options
}

// WSFeed reads waveform frames from a websocket server and routes them to
// one station actor per subscribed station. Binary messages are wire
// frames, text messages are JSON control messages.
type WSFeed struct {
	opts     Options
	stations map[string]*actor.PID
	engine   *actor.Engine
	parser   fastjson.Parser
	log      *log.Entry

	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
	done   chan struct{}
}

func New(opts Options) actor.Producer {
	return func() actor.Receiver {
		return &WSFeed{
			opts:     opts,
			stations: make(map[string]*actor.PID),
			done:     make(chan struct{}),
		}
	}
}

func (f *WSFeed) Receive(c *actor.Context) {
	switch c.Message().(type) {
	case actor.Started:
		f.start(c)
	case actor.Stopped:
		f.stop()
	}
}

func (f *WSFeed) start(c *actor.Context) {
	f.engine = c.Engine()
	f.log = log.WithFields(log.Fields{"pid": c.PID().String(), "url": f.opts.URL})
	// Initialize all the station actors as childs
	for _, ch := range f.opts.Channels {
		id := ch.StationID()
		if _, ok := f.stations[id]; ok {
			continue
		}
		f.stations[id] = c.SpawnChild(station.New(id, f.opts.Station), "station", actor.WithID(id))
	}
	go f.run()
}

func (f *WSFeed) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
	if f.ws != nil {
		f.ws.Close()
	}
}

func (f *WSFeed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// run keeps a connection open until the actor stops, reconnecting with
// exponential backoff.
func (f *WSFeed) run() {
	backoff := minBackoff
	for !f.isClosed() {
		ws, err := f.connect()
		if err == nil {
			backoff = minBackoff
			err = f.wsLoop(ws)
		}
		if f.isClosed() {
			return
		}
		f.log.WithError(err).WithField("retry", backoff).Warn("feed connection lost")
		select {
		case <-time.After(backoff):
		case <-f.done:
			return
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (f *WSFeed) connect() (*websocket.Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(f.opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial feed: %w", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, SubscribeMessage(f.opts.Channels)); err != nil {
		ws.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		ws.Close()
		return nil, net.ErrClosed
	}
	f.ws = ws
	f.log.WithField("channels", len(f.opts.Channels)).Info("feed connected")
	return ws, nil
}

func (f *WSFeed) wsLoop(ws *websocket.Conn) error {
	defer ws.Close()
	for {
		kind, msg, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read feed: %w", err)
		}
		switch kind {
		case websocket.BinaryMessage:
			f.handleFrame(msg)
		case websocket.TextMessage:
			f.handleControl(msg)
		}
	}
}

func (f *WSFeed) handleFrame(msg []byte) {
	frame, err := wire.Decode(msg)
	if err != nil {
		f.log.WithError(err).Warn("failed to decode frame")
		return
	}
	packet, err := event.PacketFromFrame(frame)
	if err != nil {
		f.log.WithError(err).Warn("frame with bad channel id")
		return
	}
	pid, ok := f.stations[packet.Channel.StationID()]
	if !ok {
		f.log.WithField("channel", packet.Channel).Debug("frame for unsubscribed station")
		return
	}
	f.engine.Send(pid, packet)
}

func (f *WSFeed) handleControl(msg []byte) {
	ctl, err := ParseControl(&f.parser, msg)
	if err != nil {
		f.log.WithError(err).Warn("failed to parse control message")
		return
	}
	switch ctl.Type {
	case "heartbeat":
		hb := event.Heartbeat{Unix: ctl.Time}
		for _, pid := range f.stations {
			f.engine.Send(pid, hb)
		}
	case "subscribed":
		f.log.WithField("channels", ctl.Channels).Debug("subscription confirmed")
	case "error":
		f.log.WithField("message", ctl.Message).Warn("feed error")
	default:
		f.log.WithField("type", ctl.Type).Debug("unknown control message")
	}
}

var ErrNoType = errors.New("control message without type")

// Control is a JSON control message, e.g.
// {"type":"heartbeat","time":1709294400000}.
type Control struct {
	Type     string
	Time     int64
	Message  string
	Channels []string
}

func ParseControl(p *fastjson.Parser, msg []byte) (Control, error) {
	v, err := p.ParseBytes(msg)
	if err != nil {
		return Control{}, err
	}
	ctl := Control{
		Type:    string(v.GetStringBytes("type")),
		Time:    v.GetInt64("time"),
		Message: string(v.GetStringBytes("message")),
	}
	if ctl.Type == "" {
		return ctl, ErrNoType
	}
	for _, item := range v.GetArray("channels") {
		ctl.Channels = append(ctl.Channels, string(item.GetStringBytes()))
	}
	return ctl, nil
}

// SubscribeMessage builds {"action":"subscribe","channels":[...]}.
func SubscribeMessage(channels []event.Channel) []byte {
	var a fastjson.Arena
	arr := a.NewArray()
	for i, ch := range channels {
		arr.SetArrayItem(i, a.NewString(ch.String()))
	}
	o := a.NewObject()
	o.Set("action", a.NewString("subscribe"))
	o.Set("channels", arr)
	return o.MarshalTo(nil)
}

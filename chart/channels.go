package chart

import (
	"math"
	"slices"

	"seischart/pkg/geom"
)

// ChannelManager lays out one track per channel, top to bottom.
type ChannelManager struct {
	channels []string
	gap      float64
	grid     geom.Rect
	tracks   []*Track
}

func NewChannelManager(channels []string, gap float64) *ChannelManager {
	m := &ChannelManager{gap: gap}
	m.SetChannels(channels)
	return m
}

func (m *ChannelManager) Channels() []string { return slices.Clone(m.channels) }
func (m *ChannelManager) Tracks() []*Track   { return m.tracks }
func (m *ChannelManager) TrackCount() int    { return len(m.tracks) }

// SetChannels replaces the channel list. Every existing track is disposed
// when the list differs. It reports whether anything changed.
func (m *ChannelManager) SetChannels(channels []string) bool {
	if slices.Equal(channels, m.channels) && len(m.tracks) == len(channels) {
		return false
	}
	for _, t := range m.tracks {
		t.dispose()
	}
	m.channels = slices.Clone(channels)
	m.tracks = make([]*Track, len(channels))
	for i, ch := range channels {
		t := newTrack(i)
		t.Channel = ch
		t.Label = ch
		m.tracks[i] = t
	}
	m.layout()
	return true
}

func (m *ChannelManager) SetGrid(r geom.Rect) {
	m.grid = r
	m.layout()
}

func (m *ChannelManager) layout() {
	rows := m.grid.SplitRows(len(m.tracks), m.gap)
	for i, t := range m.tracks {
		t.setRect(rows[i])
	}
}

// TrackIndexByPosition returns the track under screen row y, or -1 when y
// is outside the grid or falls into a gap.
func (m *ChannelManager) TrackIndexByPosition(y float64) int {
	n := len(m.tracks)
	if n == 0 || y < m.grid.Y || y > m.grid.Bottom() {
		return -1
	}
	pitch := (m.grid.Height + m.gap) / float64(n)
	i := min(int(math.Floor((y-m.grid.Y)/pitch)), n-1)
	if y > m.tracks[i].rect.Bottom() {
		return -1
	}
	return i
}

func (m *ChannelManager) Track(i int) *Track {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	return m.tracks[i]
}

func (m *ChannelManager) TrackByChannel(ch string) *Track {
	return m.Track(slices.Index(m.channels, ch))
}

package series

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is a half-open [Start, End) interval of epoch milliseconds.
type Segment struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func NewSegment(start, end int64) Segment {
	return Segment{Start: start, End: end}
}

// Key is the canonical string form used by DataStore.
func (s Segment) Key() string {
	return strconv.FormatInt(s.Start, 10) + "-" + strconv.FormatInt(s.End, 10)
}

// ParseSegment parses a key produced by Key.
func ParseSegment(key string) (Segment, error) {
	// Start may be negative, so split on the last dash.
	i := strings.LastIndexByte(key, '-')
	if i <= 0 {
		return Segment{}, fmt.Errorf("invalid segment key %q", key)
	}
	start, err := strconv.ParseInt(key[:i], 10, 64)
	if err != nil {
		return Segment{}, fmt.Errorf("invalid segment start in %q: %w", key, err)
	}
	end, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return Segment{}, fmt.Errorf("invalid segment end in %q: %w", key, err)
	}
	return Segment{Start: start, End: end}, nil
}

func (s Segment) Duration() int64 { return s.End - s.Start }

func (s Segment) Valid() bool { return s.Start < s.End }

func (s Segment) Contains(t int64) bool {
	return t >= s.Start && t < s.End
}

func (s Segment) Overlaps(o Segment) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Segment) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// SegmentAt returns the segment of length d that contains t, aligned to
// multiples of d.
func SegmentAt(t, d int64) Segment {
	start := t / d * d
	if t%d != 0 && t < 0 {
		start -= d
	}
	return Segment{Start: start, End: start + d}
}

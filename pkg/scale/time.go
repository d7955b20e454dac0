package scale

import (
	"math"
	"time"
)

// Unit is a calendar tier of the time tick cascade.
type Unit int

const (
	Millisecond Unit = iota
	Second
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

func (u Unit) String() string {
	switch u {
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

const (
	msSecond = 1000.0
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
	msWeek   = 7 * msDay
	msMonth  = 30 * msDay
	msYear   = 365 * msDay
	// 1970-01-01 was a Thursday; shifting by three days puts week
	// boundaries on Mondays.
	weekPhase = 3 * msDay
)

// TimeStep is one entry of the cascade. Duration is approximate for the
// calendar units and only used to choose a step.
type TimeStep struct {
	Unit     Unit
	N        int
	Duration float64
}

var cascade = []TimeStep{
	{Millisecond, 1, 1},
	{Millisecond, 2, 2},
	{Millisecond, 5, 5},
	{Millisecond, 10, 10},
	{Millisecond, 20, 20},
	{Millisecond, 50, 50},
	{Millisecond, 100, 100},
	{Millisecond, 200, 200},
	{Millisecond, 500, 500},
	{Second, 1, msSecond},
	{Second, 2, 2 * msSecond},
	{Second, 5, 5 * msSecond},
	{Second, 10, 10 * msSecond},
	{Second, 15, 15 * msSecond},
	{Second, 30, 30 * msSecond},
	{Minute, 1, msMinute},
	{Minute, 2, 2 * msMinute},
	{Minute, 5, 5 * msMinute},
	{Minute, 10, 10 * msMinute},
	{Minute, 15, 15 * msMinute},
	{Minute, 30, 30 * msMinute},
	{Hour, 1, msHour},
	{Hour, 2, 2 * msHour},
	{Hour, 3, 3 * msHour},
	{Hour, 6, 6 * msHour},
	{Hour, 12, 12 * msHour},
	{Day, 1, msDay},
	{Day, 2, 2 * msDay},
	{Week, 1, msWeek},
	{Month, 1, msMonth},
	{Quarter, 1, 3 * msMonth},
	{Quarter, 2, 6 * msMonth},
	{Year, 1, msYear},
}

const (
	pixelsPerLabel = 100
	maxMinorTicks  = 100
)

var unitTemplates = map[Unit]string{
	Millisecond: "{HH}:{mm}:{ss}.{SSS}",
	Second:      "{HH}:{mm}:{ss}",
	Minute:      "{HH}:{mm}",
	Hour:        "{HH}:{mm}",
	Day:         "{MM}-{dd}",
	Week:        "{MM}-{dd}",
	Month:       "{MMM}",
	Quarter:     "{MMM}",
	Year:        "{yyyy}",
}

// Time is a scale over epoch-millisecond timestamps.
type Time struct {
	extent
	opts Options
}

var _ Scale = (*Time)(nil)

func NewTime(opts Options) *Time {
	return &Time{
		extent: extent{min: 0, max: msDay},
		opts:   opts,
	}
}

func (s *Time) Type() Type           { return TypeTime }
func (s *Time) Options() Options     { return s.opts }
func (s *Time) SetOptions(o Options) { s.opts = o }

// MajorStep picks the smallest cascade step yielding no more than one
// label per 100 pixels of width (or maxTicks labels when width is unknown).
func (s *Time) MajorStep(width float64, maxTicks int) TimeStep {
	target := maxTicks
	if width > 0 {
		target = int(width / pixelsPerLabel)
	}
	if target < 1 {
		target = 1
	}
	span := s.max - s.min
	for _, st := range cascade {
		if span/st.Duration <= float64(target) {
			return st
		}
	}
	years := math.Max(1, niceNum(span/msYear/float64(target), false))
	return TimeStep{Unit: Year, N: int(years), Duration: years * msYear}
}

// MinorStep picks the smallest cascade step not shorter than a hundredth
// of the extent.
func (s *Time) MinorStep() TimeStep {
	want := (s.max - s.min) / maxMinorTicks
	for _, st := range cascade {
		if st.Duration >= want {
			return st
		}
	}
	years := math.Max(1, niceNum(want/msYear, false))
	return TimeStep{Unit: Year, N: int(years), Duration: years * msYear}
}

func (s *Time) Ticks(o TickOptions) []Tick {
	if !(s.max > s.min) {
		return []Tick{{Value: s.min, Label: s.label(s.min, Millisecond), Major: true}}
	}
	st := s.MajorStep(o.Width, o.maxTicks())
	values := s.stepValues(st, 0)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Label: s.label(v, st.Unit), Major: true}
	}
	if o.Reverse {
		reverseTicks(ticks)
	}
	return ticks
}

func (s *Time) MinorTicks(o TickOptions) []Tick {
	if !(s.max > s.min) {
		return nil
	}
	values := s.stepValues(s.MinorStep(), maxMinorTicks)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v}
	}
	if o.Reverse {
		reverseTicks(ticks)
	}
	return ticks
}

func (s *Time) FormatValue(v float64) string {
	tmpl := s.opts.LabelTemplate
	if tmpl == "" {
		tmpl = "{yyyy}-{MM}-{dd} {HH}:{mm}:{ss}"
	}
	return FormatMillis(v, tmpl, s.opts.Locale, s.opts.location())
}

// stepValues returns the boundary-aligned timestamps of st inside the
// extent. limit caps the result when positive.
func (s *Time) stepValues(st TimeStep, limit int) []float64 {
	loc := s.opts.location()
	var out []float64
	add := func(v float64) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		out = append(out, v)
		return true
	}

	switch st.Unit {
	case Month, Quarter, Year:
		months := st.N
		if st.Unit == Quarter {
			months = 3 * st.N
		}
		t := time.UnixMilli(int64(s.min)).In(loc)
		var cur time.Time
		if st.Unit == Year {
			y := t.Year() - t.Year()%st.N
			cur = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
			months = 12 * st.N
		} else {
			m := int(t.Month()) - 1
			m -= m % months
			cur = time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, loc)
		}
		for ; float64(cur.UnixMilli()) <= s.max; cur = cur.AddDate(0, months, 0) {
			v := float64(cur.UnixMilli())
			if v < s.min {
				continue
			}
			if !add(v) {
				break
			}
		}
	default:
		if math.Mod(msHour, st.Duration) == 0 {
			// Steps dividing an hour are unaffected by whole-hour DST shifts,
			// and stepping in absolute time keeps repeated wall hours.
			w := math.Ceil(wallMillis(s.min, loc)/st.Duration) * st.Duration
			for v := s.min + w - wallMillis(s.min, loc); v <= s.max; v += st.Duration {
				if !add(v) {
					break
				}
			}
			break
		}
		// Longer steps are found on the wall clock of loc and converted
		// back, so hour and day ticks stay aligned across DST changes.
		phase := 0.0
		if st.Unit == Week {
			phase = weekPhase
		}
		w := math.Ceil((wallMillis(s.min, loc)+phase)/st.Duration)*st.Duration - phase
		last := math.Inf(-1)
		for ; ; w += st.Duration {
			v := fromWall(w, loc)
			if v > s.max {
				break
			}
			// Skipped wall times resolve to an instant already emitted.
			if v < s.min || v <= last {
				continue
			}
			last = v
			if !add(v) {
				break
			}
		}
	}
	return out
}

// wallMillis returns the wall clock reading of ms in loc as milliseconds
// since the epoch.
func wallMillis(ms float64, loc *time.Location) float64 {
	_, off := time.UnixMilli(int64(ms)).In(loc).Zone()
	return ms + float64(off)*msSecond
}

// fromWall is the inverse of wallMillis. Wall times skipped by a DST
// change are normalized by time.Date.
func fromWall(w float64, loc *time.Location) float64 {
	frac := w - math.Floor(w)
	t := time.UnixMilli(int64(math.Floor(w))).UTC()
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	return float64(local.UnixMilli()) + frac
}

// label formats v with the template of unit, promoted to the day, month
// or year template when v sits on such a boundary.
func (s *Time) label(v float64, unit Unit) string {
	tmpl := s.opts.LabelTemplate
	if tmpl == "" {
		t := time.UnixMilli(int64(v)).In(s.opts.location())
		level := unit
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			switch {
			case t.Month() == time.January && t.Day() == 1:
				level = max(level, Year)
			case t.Day() == 1 && unit >= Day:
				level = max(level, Month)
			default:
				level = max(level, Day)
			}
		}
		tmpl = unitTemplates[level]
	}
	return FormatMillis(v, tmpl, s.opts.Locale, s.opts.location())
}

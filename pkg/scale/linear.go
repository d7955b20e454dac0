package scale

import (
	"math"
	"strconv"
)

type Linear struct {
	extent
	opts Options
}

var _ Scale = (*Linear)(nil)

func NewLinear(opts Options) *Linear {
	return &Linear{
		extent: extent{min: 0, max: 1},
		opts:   opts,
	}
}

func (s *Linear) Type() Type           { return TypeLinear }
func (s *Linear) Options() Options     { return s.opts }
func (s *Linear) SetOptions(o Options) { s.opts = o }

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten. With round set
// the closest nice number is taken, otherwise the smallest one >= x.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f <= 1:
			nf = 1
		case f <= 2:
			nf = 2
		case f <= 5:
			nf = 5
		default:
			nf = 10
		}
	}
	return nf * math.Pow(10, exp)
}

// nextNice returns the nice step following step, e.g. 2 -> 5 -> 10 -> 20.
func nextNice(step float64) float64 {
	exp := math.Floor(math.Log10(step))
	base := math.Pow(10, exp)
	f := math.Round(step / base)
	switch {
	case f < 2:
		return 2 * base
	case f < 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// minLinearTicks is the fewest ticks that can bracket an extent
// straddling zero: one below, zero itself and one above.
const minLinearTicks = 3

// spacing returns the major tick spacing for the current extent. Once the
// step reaches the extent width at most three ticks remain, so the loop
// ends for any maxTicks >= minLinearTicks.
func (s *Linear) spacing(maxTicks int) float64 {
	maxTicks = max(maxTicks, minLinearTicks)
	r := niceNum(s.max-s.min, false)
	step := niceNum(r/float64(maxTicks-1), true)
	if math.IsInf(step, 0) || math.IsNaN(step) || step <= 0 {
		return step
	}
	for s.count(step) > maxTicks {
		step = nextNice(step)
	}
	return step
}

func (s *Linear) count(step float64) int {
	lo := math.Floor(s.min/step) * step
	hi := math.Ceil(s.max/step) * step
	return int(math.Round((hi-lo)/step)) + 1
}

func decimals(step float64) int {
	d := -int(math.Floor(math.Log10(step)))
	if d < 0 {
		return 0
	}
	return d
}

func roundTo(v float64, dec int) float64 {
	p := math.Pow(10, float64(dec))
	return math.Round(v*p) / p
}

func (s *Linear) Ticks(o TickOptions) []Tick {
	if !(s.max > s.min) || math.IsInf(s.max-s.min, 0) {
		return []Tick{{Value: s.min, Label: s.FormatValue(s.min), Major: true}}
	}
	step := s.spacing(o.maxTicks())
	dec := decimals(step)
	lo := math.Floor(s.min/step) * step
	n := s.count(step)

	ticks := make([]Tick, 0, n)
	for k := 0; k < n; k++ {
		v := roundTo(lo+float64(k)*step, dec)
		ticks = append(ticks, Tick{Value: v, Label: s.format(v, dec), Major: true})
	}
	if o.Reverse {
		reverseTicks(ticks)
	}
	return ticks
}

// MinorTicks splits every major interval into SplitNumber parts and
// returns the inner points that fall within the extent.
func (s *Linear) MinorTicks(o TickOptions) []Tick {
	if !(s.max > s.min) {
		return nil
	}
	step := s.spacing(o.maxTicks())
	split := o.splitNumber()
	minor := step / float64(split)
	dec := decimals(minor)
	lo := math.Floor(s.min/step) * step
	n := s.count(step)

	var ticks []Tick
	for k := 0; k < n-1; k++ {
		base := lo + float64(k)*step
		for j := 1; j < split; j++ {
			v := roundTo(base+float64(j)*minor, dec)
			if v < s.min || v > s.max {
				continue
			}
			ticks = append(ticks, Tick{Value: v})
		}
	}
	if o.Reverse {
		reverseTicks(ticks)
	}
	return ticks
}

func (s *Linear) format(v float64, dec int) string {
	if s.opts.Precision >= 0 {
		dec = s.opts.Precision
	}
	return strconv.FormatFloat(v, 'f', dec, 64)
}

func (s *Linear) FormatValue(v float64) string {
	dec := 2
	if s.max > s.min {
		dec = decimals(s.spacing(defaultMaxTicks)) + 1
	}
	return s.format(v, dec)
}

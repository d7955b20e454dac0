// Package scale maps values to percentages of an extent and generates
// ticks for linear and time domains.
package scale

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type Type string

const (
	TypeLinear Type = "linear"
	TypeTime   Type = "time"
)

var ErrUnknownType = errors.New("unknown scale type")

// Tick is a single tick value on a scale.
type Tick struct {
	Value float64
	Label string
	Major bool
}

// TickOptions constrains tick generation. Width is the length of the
// axis in pixels and is only used by time scales. Linear scales raise
// MaxTicks to 3 since that many are needed to bracket zero.
type TickOptions struct {
	MaxTicks    int
	Reverse     bool
	Width       float64
	SplitNumber int
}

const (
	defaultMaxTicks    = 5
	defaultSplitNumber = 5
)

func (o TickOptions) maxTicks() int {
	if o.MaxTicks < 2 {
		return defaultMaxTicks
	}
	return o.MaxTicks
}

func (o TickOptions) splitNumber() int {
	if o.SplitNumber < 1 {
		return defaultSplitNumber
	}
	return o.SplitNumber
}

// Options configures a scale. Use Apply with an OptionsPatch to update a
// subset of fields.
type Options struct {
	UseUTC bool
	// Location overrides time.Local when UseUTC is false.
	Location *time.Location
	Locale   Locale
	// LabelTemplate forces a single label template for time scales,
	// e.g. "{HH}:{mm}". Empty selects a template per tick unit.
	LabelTemplate string
	// Precision forces the number of decimals for linear labels. Negative
	// derives it from the tick spacing.
	Precision int
}

func DefaultOptions() Options {
	return Options{
		Locale:    LocaleEN,
		Precision: -1,
	}
}

// OptionsPatch lists the fields that may be updated after construction.
// Nil fields are left untouched.
type OptionsPatch struct {
	UseUTC        *bool
	Location      *time.Location
	Locale        *Locale
	LabelTemplate *string
	Precision     *int
}

func (o Options) Apply(p OptionsPatch) Options {
	if p.UseUTC != nil {
		o.UseUTC = *p.UseUTC
	}
	if p.Location != nil {
		o.Location = p.Location
	}
	if p.Locale != nil {
		o.Locale = *p.Locale
	}
	if p.LabelTemplate != nil {
		o.LabelTemplate = *p.LabelTemplate
	}
	if p.Precision != nil {
		o.Precision = *p.Precision
	}
	return o
}

func (o Options) location() *time.Location {
	if o.UseUTC {
		return time.UTC
	}
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// Scale converts between data values and percentages of its extent.
//
// ValueToPercentage and PercentageToValue do not guard a zero-width
// extent; callers check the range before using them.
type Scale interface {
	Type() Type
	Extent() (min, max float64)
	SetExtent(min, max float64)
	Options() Options
	SetOptions(Options)
	ValueToPercentage(v float64) float64
	PercentageToValue(p float64) float64
	Ticks(o TickOptions) []Tick
	MinorTicks(o TickOptions) []Tick
	FormatValue(v float64) string
}

func New(t Type, opts Options) (Scale, error) {
	switch t {
	case TypeLinear:
		return NewLinear(opts), nil
	case TypeTime:
		return NewTime(opts), nil
	default:
		return nil, fmt.Errorf("scale %q: %w", t, ErrUnknownType)
	}
}

// MustNew is like New but panics on an unknown type.
func MustNew(t Type, opts Options) Scale {
	s, err := New(t, opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Spec is a serializable snapshot of a scale.
type Spec struct {
	Type Type    `json:"type"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

func SpecOf(s Scale) Spec {
	min, max := s.Extent()
	return Spec{Type: s.Type(), Min: min, Max: max}
}

func FromSpec(sp Spec) (Scale, error) {
	s, err := New(sp.Type, DefaultOptions())
	if err != nil {
		return nil, err
	}
	s.SetExtent(sp.Min, sp.Max)
	return s, nil
}

// extent is shared by the concrete scales.
type extent struct {
	min, max float64
}

func (e *extent) Extent() (float64, float64) {
	return e.min, e.max
}

func (e *extent) SetExtent(min, max float64) {
	if !math.IsNaN(min) {
		e.min = min
	}
	if !math.IsNaN(max) {
		e.max = max
	}
}

func (e *extent) ValueToPercentage(v float64) float64 {
	return (v - e.min) / (e.max - e.min)
}

func (e *extent) PercentageToValue(p float64) float64 {
	return e.min + p*(e.max-e.min)
}

func reverseTicks(ticks []Tick) {
	for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
		ticks[i], ticks[j] = ticks[j], ticks[i]
	}
}

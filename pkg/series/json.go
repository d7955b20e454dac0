package series

import (
	"fmt"
	"math"

	"github.com/valyala/fastjson"
)

// MarshalJSON writes the index and values as arrays. JSON has no NaN, so
// gap samples are written as null.
func (d *Data) MarshalJSON() ([]byte, error) {
	var a fastjson.Arena
	o := a.NewObject()
	o.Set("index", floatArray(&a, d.Index))
	o.Set("values", floatArray(&a, d.Values))
	o.Set("min", number(&a, d.Min))
	o.Set("max", number(&a, d.Max))
	o.Set("count", a.NewNumberInt(d.Count))
	return o.MarshalTo(nil), nil
}

// UnmarshalJSON reads what MarshalJSON writes. null samples become NaN
// and the stats are recomputed from the samples.
func (d *Data) UnmarshalJSON(b []byte) error {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("series: %w", err)
	}
	index, err := floats(v.Get("index"))
	if err != nil {
		return fmt.Errorf("series: index: %w", err)
	}
	values, err := floats(v.Get("values"))
	if err != nil {
		return fmt.Errorf("series: values: %w", err)
	}
	*d = *New(index, values)
	return nil
}

func floatArray(a *fastjson.Arena, vs []float64) *fastjson.Value {
	arr := a.NewArray()
	for i, f := range vs {
		arr.SetArrayItem(i, number(a, f))
	}
	return arr
}

func number(a *fastjson.Arena, f float64) *fastjson.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return a.NewNull()
	}
	return a.NewNumberFloat64(f)
}

func floats(v *fastjson.Value) ([]float64, error) {
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil, nil
	}
	arr, err := v.Array()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(arr))
	for i, x := range arr {
		if x.Type() == fastjson.TypeNull {
			out[i] = math.NaN()
			continue
		}
		if out[i], err = x.Float64(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return out, nil
}

package app

import "fmt"

// RowInterval is a helicorder row length in minutes.
type RowInterval int64

func (t RowInterval) String() string {
	switch {
	case t >= 60 && t%60 == 0:
		return fmt.Sprintf("%dH", t/60)
	default:
		return fmt.Sprintf("%dM", t)
	}
}

// Package wire decodes the binary waveform frames served by the data
// backend: a 192 byte header followed by the index and data arrays.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"seischart/pkg/series"
)

const (
	idSize     = 64
	blockSize  = 64
	HeaderSize = 2*idSize + blockSize
)

var (
	ErrShortHeader  = errors.New("wire: frame shorter than header")
	ErrShortPayload = errors.New("wire: payload shorter than sample count")
	ErrBadCount     = errors.New("wire: invalid sample count")
	ErrIDTooLong    = errors.New("wire: identifier longer than 64 bytes")
)

// Header is the fixed part of a frame.
type Header struct {
	ChannelID  string
	SourceID   string
	Start      float64
	End        float64
	SampleRate float64
	Count      int
}

// Frame is a decoded waveform frame.
type Frame struct {
	Header
	Index  []float64
	Values []float64
}

// Data converts the frame into a series.
func (f *Frame) Data() *series.Data {
	return series.New(f.Index, f.Values)
}

func readID(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	block := b[2*idSize : HeaderSize]
	h := Header{
		ChannelID:  readID(b[:idSize]),
		SourceID:   readID(b[idSize : 2*idSize]),
		Start:      math.Float64frombits(binary.LittleEndian.Uint64(block[0:])),
		End:        math.Float64frombits(binary.LittleEndian.Uint64(block[8:])),
		SampleRate: math.Float64frombits(binary.LittleEndian.Uint64(block[16:])),
	}
	count := math.Float64frombits(binary.LittleEndian.Uint64(block[24:]))
	if count < 0 || count != math.Trunc(count) || count > math.MaxInt32 {
		return h, fmt.Errorf("%w: %v", ErrBadCount, count)
	}
	h.Count = int(count)
	return h, nil
}

// Decode parses one frame. Trailing bytes after the data array are ignored.
func Decode(b []byte) (*Frame, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	need := HeaderSize + 16*h.Count
	if len(b) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortPayload, need, len(b))
	}
	f := &Frame{
		Header: h,
		Index:  make([]float64, h.Count),
		Values: make([]float64, h.Count),
	}
	off := HeaderSize
	for i := range f.Index {
		f.Index[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		off += 8
	}
	for i := range f.Values {
		f.Values[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		off += 8
	}
	return f, nil
}

// Encode writes f in the wire layout. Count is taken from the length of
// the shorter array.
func Encode(f *Frame) ([]byte, error) {
	if len(f.ChannelID) > idSize || len(f.SourceID) > idSize {
		return nil, ErrIDTooLong
	}
	n := min(len(f.Index), len(f.Values))
	b := make([]byte, HeaderSize+16*n)
	copy(b, f.ChannelID)
	copy(b[idSize:], f.SourceID)
	block := b[2*idSize:]
	binary.LittleEndian.PutUint64(block[0:], math.Float64bits(f.Start))
	binary.LittleEndian.PutUint64(block[8:], math.Float64bits(f.End))
	binary.LittleEndian.PutUint64(block[16:], math.Float64bits(f.SampleRate))
	binary.LittleEndian.PutUint64(block[24:], math.Float64bits(float64(n)))
	off := HeaderSize
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(b[off:], math.Float64bits(f.Index[i]))
		off += 8
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(b[off:], math.Float64bits(f.Values[i]))
		off += 8
	}
	return b, nil
}

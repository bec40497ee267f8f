package protocol

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the Delivery message on the wire.
const (
	fieldKind    protowire.Number = 1
	fieldClient  protowire.Number = 2
	fieldTime    protowire.Number = 3
	fieldSurface protowire.Number = 4
	fieldX       protowire.Number = 5
	fieldY       protowire.Number = 6
	fieldSX      protowire.Number = 7
	fieldSY      protowire.Number = 8
	fieldCode    protowire.Number = 9
	fieldPressed protowire.Number = 10
)

// maxFrameSize bounds a single decoded delivery.
const maxFrameSize = 1 << 16

// ErrFrameTooLarge is returned when a frame length exceeds maxFrameSize
var ErrFrameTooLarge = errors.New("delivery frame too large")

// MarshalDelivery encodes d as a protobuf message.
func MarshalDelivery(d Delivery) []byte {
	var b []byte
	b = appendVarint(b, fieldKind, uint64(d.Kind))
	b = appendVarint(b, fieldClient, uint64(d.Client))
	b = appendVarint(b, fieldTime, uint64(d.Time))
	b = appendVarint(b, fieldSurface, uint64(d.Surface))
	b = appendDouble(b, fieldX, d.X)
	b = appendDouble(b, fieldY, d.Y)
	b = appendDouble(b, fieldSX, d.SX)
	b = appendDouble(b, fieldSY, d.SY)
	b = appendVarint(b, fieldCode, uint64(d.Code))
	if d.Pressed {
		b = appendVarint(b, fieldPressed, protowire.EncodeBool(true))
	}
	return b
}

// UnmarshalDelivery decodes a message produced by MarshalDelivery. Unknown
// fields are skipped.
func UnmarshalDelivery(b []byte) (Delivery, error) {
	var d Delivery
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, fmt.Errorf("failed to read tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, fmt.Errorf("failed to read field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldKind:
				d.Kind = Kind(v)
			case fieldClient:
				d.Client = ClientID(v)
			case fieldTime:
				d.Time = uint32(v)
			case fieldSurface:
				d.Surface = uint32(v)
			case fieldCode:
				d.Code = uint32(v)
			case fieldPressed:
				d.Pressed = protowire.DecodeBool(v)
			}
		case typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return d, fmt.Errorf("failed to read field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			f := math.Float64frombits(v)
			switch num {
			case fieldX:
				d.X = f
			case fieldY:
				d.Y = f
			case fieldSX:
				d.SX = f
			case fieldSY:
				d.SY = f
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, fmt.Errorf("failed to skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return d, nil
}

// WriteDelivery writes d as a length-delimited frame.
func WriteDelivery(w io.Writer, d Delivery) error {
	msg := MarshalDelivery(d)
	frame := protowire.AppendBytes(nil, msg)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write delivery: %w", err)
	}
	return nil
}

// ReadDelivery reads one length-delimited frame. It returns io.EOF at a clean
// end of stream.
func ReadDelivery(r *bufio.Reader) (Delivery, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Delivery{}, io.EOF
		}
		return Delivery{}, fmt.Errorf("failed to read frame length: %w", err)
	}
	if length > maxFrameSize {
		return Delivery{}, ErrFrameTooLarge
	}

	msg := make([]byte, length)
	if _, err := io.ReadFull(r, msg); err != nil {
		return Delivery{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return UnmarshalDelivery(msg)
}

// ReadDeliveries decodes frames until the end of the stream.
func ReadDeliveries(r io.Reader) ([]Delivery, error) {
	br := bufio.NewReader(r)
	var out []Delivery
	for {
		d, err := ReadDelivery(br)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

package proptree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// Writer accumulates the little-endian byte stream the codec produces.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated stream.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteU8(v uint8) { w.buf.WriteByte(v) }

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteOptimU16 writes v in one byte if v < 0xFF, else a 0xFF marker
// followed by the full little-endian u16.
func (w *Writer) WriteOptimU16(v uint16) {
	if v < 0xFF {
		w.WriteU8(uint8(v))
		return
	}
	w.WriteU8(0xFF)
	w.WriteU16(v)
}

// WriteOptimU32 writes v in one byte if v < 0xFF, else a 0xFF marker
// followed by the full little-endian u32.
func (w *Writer) WriteOptimU32(v uint32) {
	if v < 0xFF {
		w.WriteU8(uint8(v))
		return
	}
	w.WriteU8(0xFF)
	w.WriteU32(v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(0x01)
	} else {
		w.WriteU8(0x00)
	}
}

func (w *Writer) WriteDouble(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteString writes optim_u32(byte_length) followed by the UTF-8 bytes
// of s, rejecting non-UTF-8 input.
func (w *Writer) WriteString(s string) error {
	if !utf8.ValidString(s) {
		return &EncodingError{Reason: fmt.Sprintf("string is not valid UTF-8: %q", s)}
	}
	w.WriteOptimU32(uint32(len(s)))
	w.buf.WriteString(s)
	return nil
}

// WriteStringProperty writes the "string_property" shape: a no_string
// bool followed by the length-prefixed bytes, omitted entirely when s is
// empty (no_string=true).
func (w *Writer) WriteStringProperty(s string) error {
	if s == "" {
		w.WriteBool(true)
		return nil
	}
	w.WriteBool(false)
	return w.WriteString(s)
}

// Reader consumes a little-endian byte stream produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps data for sequential reads.
func NewReader(data []byte) *Reader { return &Reader{buf: data} }

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadOptimU16 reads the one-byte-or-marker-plus-u16 encoding.
func (r *Reader) ReadOptimU16() (uint16, error) {
	marker, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	if marker != 0xFF {
		return uint16(marker), nil
	}
	return r.ReadU16()
}

// ReadOptimU32 reads the one-byte-or-marker-plus-u32 encoding.
func (r *Reader) ReadOptimU32() (uint32, error) {
	marker, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	if marker != 0xFF {
		return uint32(marker), nil
	}
	return r.ReadU32()
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *Reader) ReadDouble() (float64, error) {
	bits, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadString reads optim_u32(byte_length) followed by that many UTF-8
// bytes, rejecting invalid UTF-8.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadOptimU32()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &EncodingError{Reason: "decoded string is not valid UTF-8"}
	}
	return string(b), nil
}

// ReadStringProperty reads the "string_property" shape.
func (r *Reader) ReadStringProperty() (string, error) {
	noString, err := r.ReadBool()
	if err != nil {
		return "", err
	}
	if noString {
		return "", nil
	}
	return r.ReadString()
}

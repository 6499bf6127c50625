package yaffs

import "encoding/binary"

// byteReader is a bounded, endianness-aware cursor over an in-memory image.
// Unlike the Python original (which stores offset/data/config as mutable
// instance state on a shared base class), it is carried explicitly by value
// so that callers can fork or rewind a cursor without aliasing surprises.
type byteReader struct {
	data   []byte
	order  binary.ByteOrder
	offset int
}

func newByteReader(data []byte, order binary.ByteOrder) byteReader {
	return byteReader{data: data, order: order}
}

func (r *byteReader) remaining() int {
	return len(r.data) - r.offset
}

func (r *byteReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, &UnexpectedEOFError{At: r.offset, Need: n}
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *byteReader) readU8() (uint8, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) readU16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *byteReader) readU32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// takeCstr reads exactly maxLen bytes and truncates at the first NUL. The
// padding bytes beyond the terminator are still consumed from the cursor.
func (r *byteReader) takeCstr(maxLen int) ([]byte, error) {
	b, err := r.readBytes(maxLen)
	if err != nil {
		return nil, err
	}
	for i, c := range b {
		if c == 0 {
			out := make([]byte, i)
			copy(out, b[:i])
			return out, nil
		}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// seek repositions the cursor to an absolute offset.
func (r *byteReader) seek(offset int) {
	r.offset = offset
}

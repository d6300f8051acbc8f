package database

import (
	"bytes"
	"strconv"
)

// delimiter separates the fields of the flat encodings.
const delimiter = '|'

// reader walks a flat encoding from left to right.
type reader struct {
	raw []byte
	pos int
}

// remaining returns the number of bytes not consumed yet.
func (r *reader) remaining() int {
	return len(r.raw) - r.pos
}

// token returns the bytes up to the next delimiter and consumes the
// delimiter. It reports false if no delimiter is left.
func (r *reader) token(delim byte) ([]byte, bool) {
	i := bytes.IndexByte(r.raw[r.pos:], delim)
	if i < 0 {
		return nil, false
	}

	tok := r.raw[r.pos : r.pos+i]
	r.pos += i + 1
	return tok, true
}

// uint reads a decimal token of the specified bit size.
func (r *reader) uint(delim byte, bitSize int) (uint64, bool) {
	tok, ok := r.token(delim)
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseUint(string(tok), 10, bitSize)
	if err != nil {
		return 0, false
	}

	return n, true
}

// sized consumes exactly size bytes followed by the delimiter. The bytes
// returned are a copy so they don't alias the input.
func (r *reader) sized(size uint64, delim byte) ([]byte, bool) {
	if size >= uint64(r.remaining()) {
		return nil, false
	}

	end := r.pos + int(size)
	if r.raw[end] != delim {
		return nil, false
	}

	out := bytes.Clone(r.raw[r.pos:end])
	if out == nil {
		out = []byte{}
	}
	r.pos = end + 1
	return out, true
}

// rest consumes and returns a copy of everything left.
func (r *reader) rest() []byte {
	out := bytes.Clone(r.raw[r.pos:])
	r.pos = len(r.raw)
	return out
}

// Package codec provides the named compression schemes used to move
// serialized blocks between nodes.
package codec

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Version is the only transport envelope version this build understands.
const Version = 1

// DefaultMaxOutputBytes is the decompression ceiling used when the caller
// doesn't provide one.
const DefaultMaxOutputBytes = 1024 * 1024

// List of the supported codecs.
const (
	RLE = "RLE"
	RAW = "RAW"
)

// Set of error variables for compression and decompression.
var (
	ErrUnsupportedCodec   = errors.New("unsupported codec")
	ErrUnsupportedVersion = errors.New("unsupported compressed block version")
	ErrOutputTooLarge     = errors.New("decompressed payload exceeds configured limit")
	ErrCorruptedStream    = errors.New("corrupted compressed bytes")
	ErrInvalidRunLength   = errors.New("invalid run length")
)

// =============================================================================

// scheme defines the pair of functions that implement a codec.
type scheme struct {
	encode func(raw []byte) []byte
	decode func(enc []byte, maxOutputBytes int) ([]byte, error)
}

// order maintains the advertised order of the supported codecs.
var order = []string{RLE, RAW}

// Map of the supported codecs with their functions.
var schemes = map[string]scheme{
	RLE: {encode: rleEncode, decode: rleDecode},
	RAW: {encode: rawEncode, decode: rawDecode},
}

// Supported returns the ordered set of codec names this build understands.
func Supported() []string {
	names := make([]string, len(order))
	copy(names, order)
	return names
}

// IsSupported reports if the named codec is understood by this build.
func IsSupported(name string) bool {
	_, exists := schemes[name]
	return exists
}

// =============================================================================

// CompressedBlock is the transport envelope for an encoded block.
type CompressedBlock struct {
	Version uint8         `json:"version" validate:"required"`
	Codec   string        `json:"codec" validate:"required"`
	Bytes   hexutil.Bytes `json:"bytes"`
}

// Compress encodes the raw bytes under the named codec.
func Compress(raw []byte, name string) (CompressedBlock, error) {
	s, exists := schemes[name]
	if !exists {
		return CompressedBlock{}, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
	}

	cb := CompressedBlock{
		Version: Version,
		Codec:   name,
		Bytes:   s.encode(raw),
	}

	return cb, nil
}

// Decompress decodes the envelope making sure the output never grows past
// maxOutputBytes. A value of zero or less uses DefaultMaxOutputBytes.
func Decompress(cb CompressedBlock, maxOutputBytes int) ([]byte, error) {
	if cb.Version != Version {
		return nil, fmt.Errorf("%w: got %d, exp %d", ErrUnsupportedVersion, cb.Version, Version)
	}

	s, exists := schemes[cb.Codec]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, cb.Codec)
	}

	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}

	return s.decode(cb.Bytes, maxOutputBytes)
}

// =============================================================================

func rawEncode(raw []byte) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

func rawDecode(enc []byte, maxOutputBytes int) ([]byte, error) {
	if len(enc) > maxOutputBytes {
		return nil, fmt.Errorf("%w: size %d, limit %d", ErrOutputTooLarge, len(enc), maxOutputBytes)
	}

	return rawEncode(enc), nil
}

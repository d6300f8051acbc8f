package codec

import "fmt"

// maxRun is the longest run a single (length, value) pair can describe.
const maxRun = 255

// rleEncode emits a (length, value) pair for every maximal run of the same
// byte, splitting runs longer than maxRun.
func rleEncode(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte{}
	}

	out := make([]byte, 0, len(raw))

	current := raw[0]
	run := 1
	for _, b := range raw[1:] {
		if b == current && run < maxRun {
			run++
			continue
		}

		out = append(out, byte(run), current)
		current = b
		run = 1
	}

	return append(out, byte(run), current)
}

// rleDecode expands the (length, value) pairs. The limit is checked before
// every append so an oversized stream is rejected without building the
// oversized output.
func rleDecode(enc []byte, maxOutputBytes int) ([]byte, error) {
	if len(enc)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count %d", ErrCorruptedStream, len(enc))
	}

	out := make([]byte, 0, min(len(enc), maxOutputBytes))
	for i := 0; i < len(enc); i += 2 {
		count := int(enc[i])
		if count == 0 {
			return nil, fmt.Errorf("%w: zero run at offset %d", ErrInvalidRunLength, i)
		}

		if len(out)+count > maxOutputBytes {
			return nil, fmt.Errorf("%w: limit %d", ErrOutputTooLarge, maxOutputBytes)
		}

		value := enc[i+1]
		for j := 0; j < count; j++ {
			out = append(out, value)
		}
	}

	return out, nil
}

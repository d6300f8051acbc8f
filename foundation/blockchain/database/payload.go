package database

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedPayload is returned when a block payload doesn't hold a
// properly encoded batch of transactions.
var ErrMalformedPayload = errors.New("malformed block payload")

// EncodeTransactions packs the transactions into a block payload:
//
//	count\n(len\nraw\n)*
func EncodeTransactions(txs []Tx) []byte {
	out := strconv.AppendInt(nil, int64(len(txs)), 10)
	out = append(out, '\n')

	for _, tx := range txs {
		raw := tx.Serialize()
		out = strconv.AppendInt(out, int64(len(raw)), 10)
		out = append(out, '\n')
		out = append(out, raw...)
		out = append(out, '\n')
	}

	return out
}

// DecodeTransactions unpacks a block payload produced by EncodeTransactions.
// An empty payload holds no transactions.
func DecodeTransactions(payload []byte) ([]Tx, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	r := reader{raw: payload}

	count, ok := r.uint('\n', 32)
	if !ok {
		return nil, fmt.Errorf("%w: transaction count", ErrMalformedPayload)
	}

	txs := make([]Tx, 0, min(int(count), r.remaining()))
	for i := 0; i < int(count); i++ {
		size, ok := r.uint('\n', 64)
		if !ok {
			return nil, fmt.Errorf("%w: transaction[%d] size", ErrMalformedPayload, i)
		}

		raw, ok := r.sized(size, '\n')
		if !ok {
			return nil, fmt.Errorf("%w: transaction[%d] body", ErrMalformedPayload, i)
		}

		tx, err := DeserializeTx(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction[%d]: %w", ErrMalformedPayload, i, err)
		}

		txs = append(txs, tx)
	}

	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: trailing bytes", ErrMalformedPayload)
	}

	return txs, nil
}

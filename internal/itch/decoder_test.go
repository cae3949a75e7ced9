package itch

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frame writes one ITCH message (length prefix + type + body) to buf.
func frame(buf *bytes.Buffer, msgType byte, body []byte) {
	payload := append([]byte{msgType}, body...)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(payload)))
	buf.Write(lenBuf[:])
	buf.Write(payload)
}

func addOrderBody(stockLocate uint16, orderRef uint64, side byte, shares, price uint32) []byte {
	b := make([]byte, 35)
	binary.BigEndian.PutUint16(b[0:2], stockLocate)
	// TrackingNumber(2) + Timestamp(6) left zero.
	binary.BigEndian.PutUint64(b[10:18], orderRef)
	b[18] = side
	binary.BigEndian.PutUint32(b[19:23], shares)
	copy(b[23:31], "AAPL    ")
	binary.BigEndian.PutUint32(b[31:35], price)
	return b
}

func TestDecodeAddOrder(t *testing.T) {
	var buf bytes.Buffer
	frame(&buf, 'A', addOrderBody(42, 1001, 'B', 100, 10000))

	d := NewDecoder(&buf)
	var got Event
	err := d.Run(func(ev Event) error {
		got = ev
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, KindAddOrder, got.Kind)
	assert.EqualValues(t, 42, got.StockLocate)

	payload, ok := got.Payload.(*AddOrder)
	require.True(t, ok)
	assert.EqualValues(t, 1001, payload.OrderRef)
	assert.Equal(t, byte('B'), payload.Side)
	assert.EqualValues(t, 100, payload.Shares)
	assert.EqualValues(t, 10000, payload.Price)
}

func TestDecodeStockDirectory(t *testing.T) {
	var buf bytes.Buffer
	body := make([]byte, 18)
	binary.BigEndian.PutUint16(body[0:2], 7)
	copy(body[10:18], "MSFT    ")
	frame(&buf, 'R', body)

	d := NewDecoder(&buf)
	var got Event
	require.NoError(t, d.Run(func(ev Event) error {
		got = ev
		return nil
	}))
	require.Equal(t, KindStockDirectory, got.Kind)
	sd, ok := got.Payload.(*StockDirectory)
	require.True(t, ok)
	assert.Equal(t, "MSFT", sd.Stock)
}

func TestDecodeSkipsInvalidEventsWithoutAborting(t *testing.T) {
	var buf bytes.Buffer
	// AddOrder with zero shares fails validation (gt=0) and must be
	// skipped, not passed to the handler.
	frame(&buf, 'A', addOrderBody(1, 1, 'B', 0, 100))
	frame(&buf, 'A', addOrderBody(1, 2, 'B', 50, 100))

	d := NewDecoder(&buf)
	var events []Event
	require.NoError(t, d.Run(func(ev Event) error {
		events = append(events, ev)
		return nil
	}))
	require.Len(t, events, 1)
	assert.EqualValues(t, 2, events[0].Payload.(*AddOrder).OrderRef)
	assert.EqualValues(t, 1, d.ParseErrors)
}

func TestDecodeUnknownMessageTypeIsCounted(t *testing.T) {
	var buf bytes.Buffer
	frame(&buf, 'Z', []byte{0, 0})

	d := NewDecoder(&buf)
	var calls int
	require.NoError(t, d.Run(func(Event) error {
		calls++
		return nil
	}))
	assert.Equal(t, 0, calls)
	assert.EqualValues(t, 1, d.ParseErrors)
}

func TestDecodeStopsCleanlyAtEOF(t *testing.T) {
	d := NewDecoder(bytes.NewReader(nil))
	err := d.Run(func(Event) error { return nil })
	assert.NoError(t, err)
}

func TestDecodeTruncatedFrameIsUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], 10)
	buf.Write(lenBuf[:])
	buf.Write([]byte{'A', 1, 2, 3}) // fewer than the declared 10 bytes

	d := NewDecoder(&buf)
	err := d.Run(func(Event) error { return nil })
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

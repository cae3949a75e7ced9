package itch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownMessageType is counted as a parse error; the core is never
// invoked for it.
var ErrUnknownMessageType = errors.New("itch: unknown message type")

// Handler receives one decoded Event at a time. A non-nil error aborts Run.
type Handler func(Event) error

// Decoder reads ITCH 5.0 framed messages — a 2-byte big-endian length
// prefix covering the message type byte and its payload — from an
// io.Reader and dispatches typed Events to a Handler. It never buffers
// more than one frame at a time.
type Decoder struct {
	r   io.Reader
	val *validator.Validate

	lenBuf [2]byte
	buf    []byte

	Messages    uint64
	ParseErrors uint64
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, val: validator.New()}
}

// Run decodes frames until r returns io.EOF, calling handle for every
// successfully decoded and validated event. It returns nil on clean
// end-of-stream, matching the CLI's exit-0-on-EOF contract.
func (d *Decoder) Run(handle Handler) error {
	for {
		ev, ok, err := d.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			continue // parse error or failed validation, already counted
		}
		d.Messages++
		if err := handle(ev); err != nil {
			return err
		}
	}
}

// next decodes one frame. ok is false for a parse error or a validation
// failure that was counted but intentionally not propagated, per spec.md
// §7: the core is not invoked for malformed messages.
func (d *Decoder) next() (Event, bool, error) {
	if _, err := io.ReadFull(d.r, d.lenBuf[:]); err != nil {
		return Event{}, false, err
	}
	n := int(binary.BigEndian.Uint16(d.lenBuf[:]))
	if n < 1 {
		d.ParseErrors++
		return Event{}, false, nil
	}
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	buf := d.buf[:n]
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Event{}, false, err
	}

	ev, err := d.decode(buf)
	if err != nil {
		d.ParseErrors++
		return Event{}, false, nil
	}
	if ev.Payload != nil {
		if err := d.val.Struct(ev.Payload); err != nil {
			d.ParseErrors++
			return Event{}, false, nil
		}
	}
	return ev, true, nil
}

// decode parses one message body: msgType byte followed by its fields.
// Non-order message types are recognized (so the driver can count them by
// kind) but only their StockLocate is extracted; the core never consumes
// the rest of their fields.
func (d *Decoder) decode(b []byte) (Event, error) {
	if len(b) < 1 {
		return Event{}, fmt.Errorf("itch: empty frame")
	}
	msgType := b[0]
	body := b[1:]

	// Every ITCH 5.0 message begins its body with StockLocate(2) and
	// TrackingNumber(2) and Timestamp(6); StockLocate is all the common
	// stack needs from messages it only counts.
	stockLocate := func() uint16 {
		if len(body) < 2 {
			return 0
		}
		return binary.BigEndian.Uint16(body)
	}

	switch msgType {
	case 'S':
		return Event{Kind: KindSystemEvent, StockLocate: stockLocate()}, nil
	case 'R':
		if len(body) < 18 {
			return Event{}, fmt.Errorf("itch: short StockDirectory frame")
		}
		return Event{
			Kind:        KindStockDirectory,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload:     &StockDirectory{Stock: decodeStock(body[10:18])},
		}, nil
	case 'H':
		return Event{Kind: KindStockTradingAction, StockLocate: stockLocate()}, nil
	case 'Y':
		return Event{Kind: KindRegSHO, StockLocate: stockLocate()}, nil
	case 'L':
		return Event{Kind: KindMarketParticipantPosition, StockLocate: stockLocate()}, nil
	case 'V':
		return Event{Kind: KindMWCBDecline, StockLocate: stockLocate()}, nil
	case 'W':
		return Event{Kind: KindMWCBStatus, StockLocate: stockLocate()}, nil
	case 'K':
		return Event{Kind: KindIPOQuoting, StockLocate: stockLocate()}, nil

	case 'A':
		if len(body) < 35 {
			return Event{}, fmt.Errorf("itch: short AddOrder frame")
		}
		return Event{
			Kind:        KindAddOrder,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &AddOrder{
				OrderRef: binary.BigEndian.Uint64(body[10:18]),
				Side:     body[18],
				Shares:   binary.BigEndian.Uint32(body[19:23]),
				Price:    binary.BigEndian.Uint32(body[31:35]),
			},
		}, nil
	case 'F':
		if len(body) < 39 {
			return Event{}, fmt.Errorf("itch: short AddOrderMPID frame")
		}
		return Event{
			Kind:        KindAddOrderMPID,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &AddOrder{
				OrderRef: binary.BigEndian.Uint64(body[10:18]),
				Side:     body[18],
				Shares:   binary.BigEndian.Uint32(body[19:23]),
				Price:    binary.BigEndian.Uint32(body[31:35]),
				MPID:     decodeStock(body[35:39]),
			},
		}, nil

	case 'E':
		if len(body) < 22 {
			return Event{}, fmt.Errorf("itch: short OrderExecuted frame")
		}
		return Event{
			Kind:        KindOrderExecuted,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &OrderExecuted{
				OrderRef: binary.BigEndian.Uint64(body[10:18]),
				Shares:   binary.BigEndian.Uint32(body[18:22]),
			},
		}, nil
	case 'C':
		if len(body) < 35 {
			return Event{}, fmt.Errorf("itch: short OrderExecutedWithPrice frame")
		}
		return Event{
			Kind:        KindOrderExecutedWithPrice,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &OrderExecuted{
				OrderRef:       binary.BigEndian.Uint64(body[10:18]),
				Shares:         binary.BigEndian.Uint32(body[18:22]),
				HasPrice:       true,
				ExecutionPrice: binary.BigEndian.Uint32(body[31:35]),
			},
		}, nil

	case 'X':
		if len(body) < 22 {
			return Event{}, fmt.Errorf("itch: short OrderCancel frame")
		}
		return Event{
			Kind:        KindOrderCancel,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &OrderCancel{
				OrderRef: binary.BigEndian.Uint64(body[10:18]),
				Shares:   binary.BigEndian.Uint32(body[18:22]),
			},
		}, nil
	case 'D':
		if len(body) < 18 {
			return Event{}, fmt.Errorf("itch: short OrderDelete frame")
		}
		return Event{
			Kind:        KindOrderDelete,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &OrderDelete{
				OrderRef: binary.BigEndian.Uint64(body[10:18]),
			},
		}, nil
	case 'U':
		if len(body) < 34 {
			return Event{}, fmt.Errorf("itch: short OrderReplace frame")
		}
		return Event{
			Kind:        KindOrderReplace,
			StockLocate: binary.BigEndian.Uint16(body),
			Payload: &OrderReplace{
				OldOrderRef: binary.BigEndian.Uint64(body[10:18]),
				NewOrderRef: binary.BigEndian.Uint64(body[18:26]),
				Shares:      binary.BigEndian.Uint32(body[26:30]),
				Price:       binary.BigEndian.Uint32(body[30:34]),
			},
		}, nil

	case 'P':
		return Event{Kind: KindTrade, StockLocate: stockLocate()}, nil
	case 'Q':
		return Event{Kind: KindCrossTrade, StockLocate: stockLocate()}, nil
	case 'B':
		return Event{Kind: KindBrokenTrade, StockLocate: stockLocate()}, nil
	case 'I':
		return Event{Kind: KindNOII, StockLocate: stockLocate()}, nil
	case 'N':
		return Event{Kind: KindRPII, StockLocate: stockLocate()}, nil
	case 'J':
		return Event{Kind: KindLULDAuctionCollar, StockLocate: stockLocate()}, nil
	default:
		return Event{}, ErrUnknownMessageType
	}
}

func decodeStock(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	return string(b[:n])
}

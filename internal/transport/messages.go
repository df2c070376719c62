// Package transport implements the wire protocol and TCP server that
// sit in front of an engine.OrderBook. The book itself is
// single-threaded by contract; this package is where exclusive access
// is enforced for a network-facing deployment, by funnelling every
// decoded command through one dispatcher goroutine.
package transport

import (
	"encoding/binary"
	"errors"

	"github.com/fasenderos/orderbook-go/internal/book"
	"github.com/fasenderos/orderbook-go/internal/engine"
	"github.com/google/uuid"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for its type")
)

// CommandType identifies which command a client sent.
type CommandType uint16

const (
	CmdLimit CommandType = iota
	CmdMarket
	CmdModify
	CmdCancel
)

// Message header lengths, in bytes. Every command opens with a 2 byte
// CommandType and a 16 byte client-generated correlation id, echoed
// back unchanged on the matching Report so a client can pair requests
// with responses on a shared connection.
const (
	commandHeaderLen = 2 + 16

	LimitCommandLen  = commandHeaderLen + 1 + 1 + 1 + 8 + 8     // side, tif, postOnly, price, quantity
	MarketCommandLen = commandHeaderLen + 1 + 8                 // side, quantity
	ModifyCommandLen = commandHeaderLen + 8 + 1 + 8 + 1 + 8     // orderID, hasPrice, price, hasQuantity, quantity
	CancelCommandLen = commandHeaderLen + 8                     // orderID
)

// Command is a decoded client request paired with the correlation id
// it arrived with.
type Command struct {
	ClientID uuid.UUID
	Type     CommandType
	Limit    LimitCommand
	Market   MarketCommand
	Modify   ModifyCommand
	Cancel   CancelCommand
}

type LimitCommand struct {
	Side        book.Side
	TimeInForce book.TimeInForce
	PostOnly    bool
	Price       uint64
	Quantity    uint64
}

type MarketCommand struct {
	Side     book.Side
	Quantity uint64
}

type ModifyCommand struct {
	OrderID     book.OrderID
	NewPrice    *uint64
	NewQuantity *uint64
}

type CancelCommand struct {
	OrderID book.OrderID
}

// DecodeCommand parses one framed message into a Command. buf must
// contain exactly one message with its 2 byte type header still
// attached.
func DecodeCommand(buf []byte) (Command, error) {
	if len(buf) < commandHeaderLen {
		return Command{}, ErrMessageTooShort
	}

	typeOf := CommandType(binary.BigEndian.Uint16(buf[0:2]))
	clientID, err := uuid.FromBytes(buf[2:18])
	if err != nil {
		return Command{}, err
	}
	body := buf[18:]

	cmd := Command{ClientID: clientID, Type: typeOf}
	switch typeOf {
	case CmdLimit:
		if len(buf) < LimitCommandLen {
			return Command{}, ErrMessageTooShort
		}
		cmd.Limit = LimitCommand{
			Side:        book.Side(body[0]),
			TimeInForce: book.TimeInForce(body[1]),
			PostOnly:    body[2] != 0,
			Price:       binary.BigEndian.Uint64(body[3:11]),
			Quantity:    binary.BigEndian.Uint64(body[11:19]),
		}
	case CmdMarket:
		if len(buf) < MarketCommandLen {
			return Command{}, ErrMessageTooShort
		}
		cmd.Market = MarketCommand{
			Side:     book.Side(body[0]),
			Quantity: binary.BigEndian.Uint64(body[1:9]),
		}
	case CmdModify:
		if len(buf) < ModifyCommandLen {
			return Command{}, ErrMessageTooShort
		}
		orderID := binary.BigEndian.Uint64(body[0:8])
		var newPrice, newQuantity *uint64
		if body[8] != 0 {
			v := binary.BigEndian.Uint64(body[9:17])
			newPrice = &v
		}
		if body[17] != 0 {
			v := binary.BigEndian.Uint64(body[18:26])
			newQuantity = &v
		}
		cmd.Modify = ModifyCommand{OrderID: book.OrderID(orderID), NewPrice: newPrice, NewQuantity: newQuantity}
	case CmdCancel:
		if len(buf) < CancelCommandLen {
			return Command{}, ErrMessageTooShort
		}
		cmd.Cancel = CancelCommand{OrderID: book.OrderID(binary.BigEndian.Uint64(body[0:8]))}
	default:
		return Command{}, ErrInvalidMessageType
	}

	return cmd, nil
}

// EncodeCommand is the client-side counterpart to DecodeCommand.
func EncodeCommand(cmd Command) []byte {
	switch cmd.Type {
	case CmdLimit:
		buf := make([]byte, LimitCommandLen)
		binary.BigEndian.PutUint16(buf[0:2], uint16(CmdLimit))
		copy(buf[2:18], cmd.ClientID[:])
		buf[18] = byte(cmd.Limit.Side)
		buf[19] = byte(cmd.Limit.TimeInForce)
		if cmd.Limit.PostOnly {
			buf[20] = 1
		}
		binary.BigEndian.PutUint64(buf[21:29], cmd.Limit.Price)
		binary.BigEndian.PutUint64(buf[29:37], cmd.Limit.Quantity)
		return buf
	case CmdMarket:
		buf := make([]byte, MarketCommandLen)
		binary.BigEndian.PutUint16(buf[0:2], uint16(CmdMarket))
		copy(buf[2:18], cmd.ClientID[:])
		buf[18] = byte(cmd.Market.Side)
		binary.BigEndian.PutUint64(buf[19:27], cmd.Market.Quantity)
		return buf
	case CmdModify:
		buf := make([]byte, ModifyCommandLen)
		binary.BigEndian.PutUint16(buf[0:2], uint16(CmdModify))
		copy(buf[2:18], cmd.ClientID[:])
		binary.BigEndian.PutUint64(buf[18:26], uint64(cmd.Modify.OrderID))
		if cmd.Modify.NewPrice != nil {
			buf[26] = 1
			binary.BigEndian.PutUint64(buf[27:35], *cmd.Modify.NewPrice)
		}
		if cmd.Modify.NewQuantity != nil {
			buf[35] = 1
			binary.BigEndian.PutUint64(buf[36:44], *cmd.Modify.NewQuantity)
		}
		return buf
	case CmdCancel:
		buf := make([]byte, CancelCommandLen)
		binary.BigEndian.PutUint16(buf[0:2], uint16(CmdCancel))
		copy(buf[2:18], cmd.ClientID[:])
		binary.BigEndian.PutUint64(buf[18:26], uint64(cmd.Cancel.OrderID))
		return buf
	default:
		return nil
	}
}

// tradeWireLen is the encoded size of one engine.Trade.
const tradeWireLen = 8 + 8 + 8 + 8

// reportFixedLen covers everything in a Report up to the trade list.
const reportFixedLen = 16 + 1 + 1 + 8 + 8 + 8 + 2

// EncodeReport serializes an engine.Result as a Report addressed to
// the client that submitted it.
func EncodeReport(clientID uuid.UUID, result engine.Result) []byte {
	buf := make([]byte, reportFixedLen+len(result.Trades)*tradeWireLen)
	copy(buf[0:16], clientID[:])
	buf[16] = byte(result.Status)
	buf[17] = byte(result.RejectReason)
	binary.BigEndian.PutUint64(buf[18:26], uint64(result.ID))
	binary.BigEndian.PutUint64(buf[26:34], result.QuantityFilled)
	binary.BigEndian.PutUint64(buf[34:42], result.QuantityRemaining)
	binary.BigEndian.PutUint16(buf[42:44], uint16(len(result.Trades)))

	offset := reportFixedLen
	for _, tr := range result.Trades {
		binary.BigEndian.PutUint64(buf[offset:offset+8], uint64(tr.MakerID))
		binary.BigEndian.PutUint64(buf[offset+8:offset+16], uint64(tr.TakerID))
		binary.BigEndian.PutUint64(buf[offset+16:offset+24], tr.Price)
		binary.BigEndian.PutUint64(buf[offset+24:offset+32], tr.Quantity)
		offset += tradeWireLen
	}
	return buf
}

// Report is the decoded, client-side view of what EncodeReport wrote.
type Report struct {
	ClientID          uuid.UUID
	Status            engine.Status
	RejectReason      engine.RejectReason
	ID                book.OrderID
	QuantityFilled    uint64
	QuantityRemaining uint64
	Trades            []engine.Trade
}

// DecodeReport parses a Report previously produced by EncodeReport.
func DecodeReport(buf []byte) (Report, error) {
	if len(buf) < reportFixedLen {
		return Report{}, ErrMessageTooShort
	}
	var r Report
	copy(r.ClientID[:], buf[0:16])
	r.Status = engine.Status(buf[16])
	r.RejectReason = engine.RejectReason(buf[17])
	r.ID = book.OrderID(binary.BigEndian.Uint64(buf[18:26]))
	r.QuantityFilled = binary.BigEndian.Uint64(buf[26:34])
	r.QuantityRemaining = binary.BigEndian.Uint64(buf[34:42])
	numTrades := int(binary.BigEndian.Uint16(buf[42:44]))

	if len(buf) < reportFixedLen+numTrades*tradeWireLen {
		return Report{}, ErrMessageTooShort
	}
	offset := reportFixedLen
	r.Trades = make([]engine.Trade, 0, numTrades)
	for i := 0; i < numTrades; i++ {
		r.Trades = append(r.Trades, engine.Trade{
			MakerID:  book.OrderID(binary.BigEndian.Uint64(buf[offset : offset+8])),
			TakerID:  book.OrderID(binary.BigEndian.Uint64(buf[offset+8 : offset+16])),
			Price:    binary.BigEndian.Uint64(buf[offset+16 : offset+24]),
			Quantity: binary.BigEndian.Uint64(buf[offset+24 : offset+32]),
		})
		offset += tradeWireLen
	}
	return r, nil
}

package engine

import "github.com/fasenderos/orderbook-go/internal/book"

// Status is the terminal outcome of a command.
type Status uint8

const (
	StatusFullyFilled Status = iota
	StatusPartiallyFilledResting
	StatusPartiallyFilledCancelled
	StatusRested
	StatusCancelled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusFullyFilled:
		return "FullyFilled"
	case StatusPartiallyFilledResting:
		return "PartiallyFilledResting"
	case StatusPartiallyFilledCancelled:
		return "PartiallyFilledCancelled"
	case StatusRested:
		return "Rested"
	case StatusCancelled:
		return "Cancelled"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// RejectReason names why a command was refused. It is only meaningful
// when Result.Status is StatusRejected.
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectInvalidQuantity
	RejectInvalidPrice
	RejectInvalidTIF
	RejectWouldCross
	RejectInsufficientLiquidity
	RejectNotFound
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return ""
	case RejectInvalidQuantity:
		return "InvalidQuantity"
	case RejectInvalidPrice:
		return "InvalidPrice"
	case RejectInvalidTIF:
		return "InvalidTIF"
	case RejectWouldCross:
		return "WouldCross"
	case RejectInsufficientLiquidity:
		return "InsufficientLiquidity"
	case RejectNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Trade records one fill between a resting maker and an incoming
// taker. Price is always the maker's resting price.
type Trade struct {
	MakerID  book.OrderID
	TakerID  book.OrderID
	Price    uint64
	Quantity uint64
}

// Result describes what a command produced. ID is zero for a
// rejected command: per the lifecycle rule, an id is only minted once
// validation passes.
type Result struct {
	ID                book.OrderID
	Status            Status
	RejectReason      RejectReason
	Trades            []Trade
	QuantityFilled    uint64
	QuantityRemaining uint64
}

// Rejected reports whether the command was refused before any book
// mutation took place.
func (r Result) Rejected() bool {
	return r.Status == StatusRejected
}

func rejected(reason RejectReason) Result {
	return Result{Status: StatusRejected, RejectReason: reason}
}

// Quote is one (price, aggregate volume) point, used by best-of-book
// and depth queries.
type Quote struct {
	Price  uint64
	Volume uint64
}

// Snapshot is the full resting state of both sides, best to worst.
type Snapshot struct {
	Bids []Quote
	Asks []Quote
}

package engine

// OpKind identifies which mutating operation produced an OpLog entry.
type OpKind uint8

const (
	OpLimit OpKind = iota
	OpMarket
	OpModify
	OpCancel
)

func (k OpKind) String() string {
	switch k {
	case OpLimit:
		return "limit"
	case OpMarket:
		return "market"
	case OpModify:
		return "modify"
	case OpCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// OpLog is an in-memory record of one accepted mutating operation.
// Rejected commands never produce an OpLog entry, since they mint no
// id and touch no state.
type OpLog struct {
	Seq    uint64
	Kind   OpKind
	Result Result
}

// Option configures an OrderBook at construction time.
type Option func(*OrderBook)

// WithJournaling turns the OnOperation callback on or off. Off by
// default: a book pays nothing for journaling unless asked.
func WithJournaling(enabled bool) Option {
	return func(ob *OrderBook) { ob.journaling = enabled }
}

// WithOnOperation registers a callback invoked, in order, after every
// accepted mutating operation. It is purely an observation hook: the
// book never replays or persists what it records, and the default is
// nil (no-op). fn must not call back into the OrderBook — the book is
// single-threaded by contract and is still inside the mutating call
// when fn runs.
func WithOnOperation(fn func(OpLog)) Option {
	return func(ob *OrderBook) { ob.onOperation = fn }
}

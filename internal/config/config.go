// Package config parses the command-line flags shared by the server
// and client binaries.
package config

import "flag"

// DefaultDepth is a default price-level count for depth queries.
// Nothing in this module reads it: engine.OrderBook.Depth returns
// every level when called with n <= 0.
const DefaultDepth = 10

// ServerConfig holds everything cmd/server needs to boot.
type ServerConfig struct {
	Addr       string
	Symbol     string
	Workers    int
	Journaling bool
}

// ParseServerConfig parses os.Args-style flags into a ServerConfig.
func ParseServerConfig(args []string) (ServerConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", "0.0.0.0:9001", "address to listen on")
	symbol := fs.String("symbol", "AAPL", "instrument symbol this book matches")
	workers := fs.Int("workers", 10, "number of connection-reading workers")
	journaling := fs.Bool("journaling", false, "log every accepted operation through the server logger")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		Addr:       *addr,
		Symbol:     *symbol,
		Workers:    *workers,
		Journaling: *journaling,
	}, nil
}

// ClientConfig holds everything cmd/client needs to submit one
// command and print the report it gets back.
type ClientConfig struct {
	ServerAddr string
	Action     string
	Side       string
	TIF        string
	PostOnly   bool
	Price      uint64
	Quantity   uint64
	OrderID    uint64
	NewPrice   uint64
	NewQuantity uint64
}

// ParseClientConfig parses os.Args-style flags into a ClientConfig.
func ParseClientConfig(args []string) (ClientConfig, error) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	serverAddr := fs.String("server", "127.0.0.1:9001", "address of the matching engine")
	action := fs.String("action", "limit", "command to send: limit, market, modify, cancel")
	side := fs.String("side", "buy", "buy or sell")
	tif := fs.String("tif", "gtc", "time in force for a limit order: gtc, ioc, fok")
	postOnly := fs.Bool("post-only", false, "reject the order instead of letting it cross")
	price := fs.Uint64("price", 0, "limit price")
	quantity := fs.Uint64("quantity", 0, "order quantity")
	orderID := fs.Uint64("id", 0, "order id to modify or cancel")
	newPrice := fs.Uint64("new-price", 0, "new price for a modify command")
	newQuantity := fs.Uint64("new-quantity", 0, "new quantity for a modify command")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{
		ServerAddr:  *serverAddr,
		Action:      *action,
		Side:        *side,
		TIF:         *tif,
		PostOnly:    *postOnly,
		Price:       *price,
		Quantity:    *quantity,
		OrderID:     *orderID,
		NewPrice:    *newPrice,
		NewQuantity: *newQuantity,
	}, nil
}

package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/fasenderos/orderbook-go/internal/book"
	"github.com/fasenderos/orderbook-go/internal/config"
	"github.com/fasenderos/orderbook-go/internal/transport"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.ParseClientConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	conn, err := net.DialTimeout("tcp", cfg.ServerAddr, 3*time.Second)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", cfg.ServerAddr, err)
	}
	defer conn.Close()

	cmd, err := buildCommand(cfg)
	if err != nil {
		log.Fatalf("bad command: %v", err)
	}

	if _, err := conn.Write(transport.EncodeCommand(cmd)); err != nil {
		log.Fatalf("failed to send command: %v", err)
	}

	buf := make([]byte, 4*1024)
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		log.Fatalf("failed to read report: %v", err)
	}

	report, err := transport.DecodeReport(buf[:n])
	if err != nil {
		log.Fatalf("failed to decode report: %v", err)
	}

	printReport(report)
}

func buildCommand(cfg config.ClientConfig) (transport.Command, error) {
	clientID := uuid.New()
	side := book.Buy
	if strings.EqualFold(cfg.Side, "sell") {
		side = book.Sell
	}

	switch strings.ToLower(cfg.Action) {
	case "limit":
		return transport.Command{
			ClientID: clientID,
			Type:     transport.CmdLimit,
			Limit: transport.LimitCommand{
				Side:        side,
				TimeInForce: parseTIF(cfg.TIF),
				PostOnly:    cfg.PostOnly,
				Price:       cfg.Price,
				Quantity:    cfg.Quantity,
			},
		}, nil
	case "market":
		return transport.Command{
			ClientID: clientID,
			Type:     transport.CmdMarket,
			Market: transport.MarketCommand{
				Side:     side,
				Quantity: cfg.Quantity,
			},
		}, nil
	case "modify":
		mod := transport.ModifyCommand{OrderID: book.OrderID(cfg.OrderID)}
		if cfg.NewPrice > 0 {
			mod.NewPrice = &cfg.NewPrice
		}
		if cfg.NewQuantity > 0 {
			mod.NewQuantity = &cfg.NewQuantity
		}
		return transport.Command{ClientID: clientID, Type: transport.CmdModify, Modify: mod}, nil
	case "cancel":
		return transport.Command{
			ClientID: clientID,
			Type:     transport.CmdCancel,
			Cancel:   transport.CancelCommand{OrderID: book.OrderID(cfg.OrderID)},
		}, nil
	default:
		return transport.Command{}, fmt.Errorf("unknown action %q", cfg.Action)
	}
}

func parseTIF(s string) book.TimeInForce {
	switch strings.ToLower(s) {
	case "ioc":
		return book.IOC
	case "fok":
		return book.FOK
	default:
		return book.GTC
	}
}

func printReport(r transport.Report) {
	if r.Status.String() == "Rejected" {
		fmt.Printf("REJECTED: %s\n", r.RejectReason)
		return
	}
	fmt.Printf("id=%d status=%s filled=%d remaining=%d\n", r.ID, r.Status, r.QuantityFilled, r.QuantityRemaining)
	for _, tr := range r.Trades {
		fmt.Printf("  trade maker=%d taker=%d price=%d qty=%d\n", tr.MakerID, tr.TakerID, tr.Price, tr.Quantity)
	}
}

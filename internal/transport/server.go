package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/fasenderos/orderbook-go/internal/engine"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	maxMessageSize     = 4 * 1024
	defaultConnTimeout = 5 * time.Second
	defaultNWorkers    = 10
)

var errImproperConversion = errors.New("improper type conversion")

// dispatchRequest pairs a decoded command with the connection it
// arrived on, so the dispatcher can write the matching Report back
// once the command has been run against the book.
type dispatchRequest struct {
	conn net.Conn
	cmd  Command
}

// Server accepts TCP connections carrying framed Commands and runs
// them against a single engine.OrderBook. Every command, regardless
// of which connection it arrived on, is executed by one dispatcher
// goroutine: this is the exclusive-access wrapper the book itself
// does not provide, since the book is single-threaded by contract.
type Server struct {
	addr    string
	book    *engine.OrderBook
	pool    *workerPool
	commands chan dispatchRequest
	cancel  context.CancelFunc
}

// NewServer builds a Server that serializes access to ob. workers
// controls how many goroutines concurrently read and decode incoming
// connections; it has no bearing on how commands are matched, since
// that always happens one at a time on the dispatcher goroutine.
func NewServer(addr string, ob *engine.OrderBook, workers int) *Server {
	if workers <= 0 {
		workers = defaultNWorkers
	}
	return &Server{
		addr:     addr,
		book:     ob,
		pool:     newWorkerPool(workers),
		commands: make(chan dispatchRequest, 1),
	}
}

// Run starts the listener, the read worker pool, and the dispatcher,
// and blocks until ctx is cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("unable to start listener: %w", err)
	}
	defer listener.Close()

	t.Go(func() error {
		s.pool.run(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.dispatch(t)
	})

	log.Info().Str("addr", s.addr).Msg("matching engine listening")

	for {
		select {
		case <-ctx.Done():
			return t.Wait()
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return t.Wait()
				default:
					log.Error().Err(err).Msg("error accepting client")
					continue
				}
			}
			s.pool.addTask(conn)
		}
	}
}

// Shutdown cancels the context Run was started with.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// handleConnection reads one framed message from a freshly accepted
// connection, decodes it, and forwards it to the dispatcher. The
// connection is put back on the pool's task queue afterwards so a
// client sending multiple commands over one connection keeps being
// served without pinning a worker to it.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return errImproperConversion
	}

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Err(err).Msg("failed setting connection deadline")
		conn.Close()
		return nil
	}

	buf := make([]byte, maxMessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		conn.Close()
		return nil
	}

	cmd, err := DecodeCommand(buf[:n])
	if err != nil {
		log.Error().Err(err).Msg("error decoding command")
		conn.Close()
		return nil
	}

	select {
	case <-t.Dying():
		conn.Close()
		return nil
	case s.commands <- dispatchRequest{conn: conn, cmd: cmd}:
	}

	s.pool.addTask(conn)
	return nil
}

// dispatch is the single goroutine allowed to touch s.book. It runs
// commands strictly one at a time, in the order they were decoded.
func (s *Server) dispatch(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case req := <-s.commands:
			result := s.execute(req.cmd)
			buf := EncodeReport(req.cmd.ClientID, result)
			if _, err := req.conn.Write(buf); err != nil {
				log.Error().Err(err).Msg("error writing report")
			}
		}
	}
}

func (s *Server) execute(cmd Command) engine.Result {
	switch cmd.Type {
	case CmdLimit:
		return s.book.Limit(engine.LimitOrderOptions{
			Side:        cmd.Limit.Side,
			Quantity:    cmd.Limit.Quantity,
			Price:       cmd.Limit.Price,
			TimeInForce: cmd.Limit.TimeInForce,
			PostOnly:    cmd.Limit.PostOnly,
		})
	case CmdMarket:
		return s.book.Market(engine.MarketOrderOptions{
			Side:     cmd.Market.Side,
			Quantity: cmd.Market.Quantity,
		})
	case CmdModify:
		return s.book.Modify(cmd.Modify.OrderID, cmd.Modify.NewPrice, cmd.Modify.NewQuantity)
	case CmdCancel:
		return s.book.Cancel(cmd.Cancel.OrderID)
	default:
		return engine.Result{Status: engine.StatusRejected, RejectReason: engine.RejectInvalidTIF}
	}
}

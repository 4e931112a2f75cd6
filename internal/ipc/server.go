package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"voxtyped/internal/logging"
)

// ErrNotSupported is returned where the platform has no socket transport.
var ErrNotSupported = errors.New("ipc: not supported on this platform")

// connReadTimeout bounds how long a client may take to send its request.
const connReadTimeout = 5 * time.Second

// Handler services decoded client requests. The daemon's app layer
// implements this.
type Handler interface {
	Status() Status
	Toggle() (Status, error)
	Cancel() error
	Reload() error
	History(limit int) ([]HistoryEntry, error)
}

// Server accepts voxctl connections on a unix domain socket.
type Server struct {
	path    string
	handler Handler
	log     *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   chan struct{}
	wg       sync.WaitGroup
}

// NewServer builds a Server bound to the given socket path.
func NewServer(path string, handler Handler, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	return &Server{path: path, handler: handler, log: log.WithComponent("ipc"), closed: make(chan struct{})}
}

// Start binds the socket and begins accepting connections until ctx is
// canceled. It returns once the listener is up; accept errors after
// shutdown are swallowed.
func (s *Server) Start(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("ipc: socket path is empty")
	}
	ln, err := listen(s.path)
	if err != nil {
		return fmt.Errorf("ipc: listen on %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Info("ipc server listening", "path", s.path)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
		case <-s.closed:
		}
		ln.Close()
	}()

	s.wg.Add(1)
	go s.acceptLoop(ctx, ln)
	return nil
}

// Close shuts the listener down and waits for in-flight connections.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()
	removeSocket(s.path)
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("ipc accept failed", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(connReadTimeout))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		s.log.Debug("ipc read failed", "error", err)
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.writeResponse(conn, errorResponse(fmt.Errorf("malformed request: %w", err)))
		return
	}

	s.writeResponse(conn, s.dispatch(req))
}

func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case CmdPing:
		return Response{OK: true}
	case CmdStatus:
		st := s.handler.Status()
		return Response{OK: true, Status: &st}
	case CmdToggle:
		st, err := s.handler.Toggle()
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, Status: &st}
	case CmdCancel:
		if err := s.handler.Cancel(); err != nil {
			return errorResponse(err)
		}
		return Response{OK: true}
	case CmdReload:
		if err := s.handler.Reload(); err != nil {
			return errorResponse(err)
		}
		return Response{OK: true}
	case CmdHistory:
		entries, err := s.handler.History(req.Limit)
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, History: entries}
	default:
		return errorResponse(fmt.Errorf("unknown command %q", req.Command))
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	b, err := encode(resp)
	if err != nil {
		s.log.Warn("ipc encode failed", "error", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(connReadTimeout))
	if _, err := conn.Write(b); err != nil {
		s.log.Debug("ipc write failed", "error", err)
	}
}

package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const wsWriteWait = 5 * time.Second

// WSServer implements Transport over a local WebSocket endpoint. Each
// connection is its own conversation: text frames in are messages, text
// frames out are replies. Meant for development and manual testing without a
// Telegram token.
type WSServer struct {
	addr   string
	logger zerolog.Logger

	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[string]*wsConn // keyed by chat ID
	nextID int64

	listenAddr string         // actual address once listening
	pumps      sync.WaitGroup // in-flight handleConn goroutines

	msgs chan Message
}

// wsConn serializes writes to one connection.
type wsConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) writeText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// NewWSServer creates a WebSocket transport listening on addr.
func NewWSServer(addr string, logger zerolog.Logger) *WSServer {
	return &WSServer{
		addr:     addr,
		logger:   logger,
		upgrader: websocket.Upgrader{},
		conns:    make(map[string]*wsConn),
		msgs:     make(chan Message),
	}
}

// Compile-time interface check.
var _ Transport = (*WSServer)(nil)

// Updates starts the HTTP server and returns the inbound message stream.
func (s *WSServer) Updates(ctx context.Context) (<-chan Message, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listenAddr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		s.pumps.Add(1)
		defer s.pumps.Done()
		s.handleConn(ctx, w, r)
	})

	server := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		server.Close()
		// Every pump must have exited before msgs can close: one may
		// still be about to send.
		s.pumps.Wait()
		close(s.msgs)
	}()

	go func() {
		s.logger.Info().Str("addr", s.listenAddr).Msg("websocket transport listening on /chat")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("websocket server stopped")
		}
	}()

	return s.msgs, nil
}

// Addr returns the address the transport is listening on. Valid once Updates
// has returned.
func (s *WSServer) Addr() string {
	return s.listenAddr
}

// Send delivers text to a connected chat.
func (s *WSServer) Send(_ context.Context, chatID, text string) error {
	s.mu.Lock()
	conn, ok := s.conns[chatID]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("chat %s is not connected", chatID)
	}
	if err := conn.writeText(text); err != nil {
		return fmt.Errorf("write to chat %s: %w", chatID, err)
	}
	return nil
}

// handleConn upgrades one connection and pumps its messages until it closes.
func (s *WSServer) handleConn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.nextID++
	chatID := "ws-" + strconv.FormatInt(s.nextID, 10)
	s.conns[chatID] = &wsConn{ws: ws}
	s.mu.Unlock()

	s.logger.Info().Str("chat_id", chatID).Msg("websocket chat connected")

	defer func() {
		s.mu.Lock()
		delete(s.conns, chatID)
		s.mu.Unlock()
		ws.Close()
		s.logger.Info().Str("chat_id", chatID).Msg("websocket chat disconnected")
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		msg := Message{ChatID: chatID, UserID: chatID, Text: string(data)}
		select {
		case <-ctx.Done():
			return
		case s.msgs <- msg:
		}
	}
}

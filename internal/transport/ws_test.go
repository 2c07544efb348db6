package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func dialChat(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/chat", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestWSServer_RoundTrip(t *testing.T) {
	s := NewWSServer("127.0.0.1:0", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := s.Updates(ctx)
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}

	conn := dialChat(t, s.Addr())
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("/help")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg Message
	select {
	case msg = <-updates:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inbound message")
	}
	if msg.Text != "/help" || msg.ChatID == "" || msg.ChatID != msg.UserID {
		t.Errorf("unexpected message: %+v", msg)
	}

	if err := s.Send(ctx, msg.ChatID, "reply"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if string(data) != "reply" {
		t.Errorf("reply = %q, want %q", data, "reply")
	}
}

func TestWSServer_SendUnknownChat(t *testing.T) {
	s := NewWSServer("127.0.0.1:0", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.Updates(ctx); err != nil {
		t.Fatalf("Updates: %v", err)
	}
	if err := s.Send(ctx, "nope", "hello"); err == nil {
		t.Error("expected error for unknown chat")
	}
}

func TestWSServer_ShutdownWithInflightMessages(t *testing.T) {
	// The message channel must not close while connection pumps can still
	// send into it, even when cancellation lands mid-burst.
	s := NewWSServer("127.0.0.1:0", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := s.Updates(ctx)
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}

	var writers sync.WaitGroup
	for i := 0; i < 4; i++ {
		conn := dialChat(t, s.Addr())
		writers.Add(1)
		go func() {
			defer writers.Done()
			defer conn.Close()
			for j := 0; j < 200; j++ {
				if err := conn.WriteMessage(websocket.TextMessage, []byte("wallet")); err != nil {
					return
				}
			}
		}()
	}

	// Consume a little, then cancel while writers are still going.
	for i := 0; i < 10; i++ {
		select {
		case <-updates:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	cancel()

	// Drain until close; a send-on-closed-channel would panic the test.
	deadline := time.After(10 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				writers.Wait()
				return
			}
		case <-deadline:
			t.Fatal("updates channel never closed after cancellation")
		}
	}
}

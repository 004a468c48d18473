package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

func TestChatWebSocket(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	srv := httptest.NewServer(tb.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	req := core.ChatRequest{Messages: []core.Message{{Role: "user", Content: "hi"}}}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	var contents []string
	for {
		var event core.StreamEvent
		err := conn.ReadJSON(&event)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("read: %v", err)
			}
			break
		}
		contents = append(contents, event.Content)
	}

	want := []string{"Hi", " there"}
	if len(contents) != 2 || contents[0] != want[0] || contents[1] != want[1] {
		t.Errorf("events = %v, want %v", contents, want)
	}
}

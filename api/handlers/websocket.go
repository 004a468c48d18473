package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Jxnis/sui-portfolio-analysis-agent/ai"
	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ChatWebSocket serves the chat pipeline over a WebSocket: one ChatRequest
// in, one JSON message per stream event out, then a normal close.
func (h *ChatHandler) ChatWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	var req core.ChatRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Printf("Invalid websocket chat request: %v", err)
		return
	}

	requestID := uuid.New().String()
	h.stats.RecordChatRequest()

	ctx := c.Request.Context()
	body, err := h.openStream(ctx, requestID, req)
	if err != nil {
		h.stats.RecordUpstreamFailure()
		log.Printf("[%s] Completion request failed: %v", requestID, err)
		_ = conn.WriteJSON(gin.H{"error": "Failed to process request"})
		return
	}
	defer body.Close()

	reframer := ai.NewReframer(body)
	events := 0
	for {
		event, err := reframer.Next()
		if err != nil {
			break
		}
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[%s] Websocket write failed: %v", requestID, err)
			h.stats.RecordStreamedEvents(events)
			return
		}
		events++
	}
	h.stats.RecordStreamedEvents(events)

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
}

package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is handled at the middleware level
		return true
	},
}

// streamMessage is one outbound frame on the streaming socket.
type streamMessage struct {
	Type   string `json:"type"` // "partial" or "result"
	Text   string `json:"text,omitempty"`
	Result any    `json:"result,omitempty"`
}

// processVoiceStream handles WS /api/v1/query/stream. Binary frames carry
// audio chunks; the text frame "done" ends the utterance. The server sends
// partial transcripts as they arrive and a final query result.
func (s *Server) processVoiceStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Stream] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	chunks := make(chan []byte)
	finished := make(chan bool, 1)

	// Reader: forwards binary frames as chunks until "done" or disconnect.
	// A disconnect cancels the session; the pipeline winds down silently.
	go func() {
		defer close(chunks)
		for {
			msgType, payload, err := conn.ReadMessage()
			if err != nil {
				cancel()
				finished <- false
				return
			}
			switch msgType {
			case websocket.BinaryMessage:
				select {
				case chunks <- payload:
				case <-ctx.Done():
					finished <- false
					return
				}
			case websocket.TextMessage:
				if strings.TrimSpace(string(payload)) == "done" {
					finished <- true
					return
				}
			}
		}
	}()

	var parts []string
	for text := range s.coordinator.ProcessVoiceStream(ctx, chunks) {
		parts = append(parts, text)
		if err := conn.WriteJSON(streamMessage{Type: "partial", Text: text}); err != nil {
			break
		}
	}

	// The transcript stream is over. Cancel the session first so a reader
	// still forwarding chunks unblocks, then learn how the client side ended.
	cancel()
	if !<-finished {
		// Client went away or the stream wound down early; no final result.
		s.countRequest("query_stream", http.StatusOK)
		return
	}

	transcript := strings.TrimSpace(strings.Join(parts, " "))
	result := s.coordinator.ProcessText(c.Request.Context(), transcript)
	if err := conn.WriteJSON(streamMessage{Type: "result", Result: result}); err != nil {
		log.Printf("[Stream] Failed to write final result: %v", err)
	}
	s.countRequest("query_stream", http.StatusOK)
}

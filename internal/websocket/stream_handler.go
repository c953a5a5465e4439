package websocket

import (
	"context"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// ChatStreamHandler serves streaming chat turns over a websocket. Each text
// frame from the client is one ChatRequest; the reply comes back as a series
// of StreamChunk frames terminated by a done frame. The connection stays
// open across turns.
type ChatStreamHandler struct {
	chatService service.IChatService
	log         logger.ILogger
}

func NewChatStreamHandler(chatService service.IChatService, log logger.ILogger) *ChatStreamHandler {
	return &ChatStreamHandler{
		chatService: chatService,
		log:         log,
	}
}

func (h *ChatStreamHandler) Handle(conn *websocket.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		var req dto.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		if req.Message == "" {
			if err := conn.WriteJSON(dto.StreamChunk{Error: "message is required", Done: true}); err != nil {
				return
			}
			continue
		}

		chunks, err := h.chatService.ChatStream(ctx, &req)
		if err != nil {
			h.log.Error("websocket.chat", "failed to start chat stream", map[string]interface{}{
				"error": err.Error(),
			})
			if err := conn.WriteJSON(dto.StreamChunk{Error: "failed to generate response", Done: true}); err != nil {
				return
			}
			continue
		}

		for chunk := range chunks {
			if err := conn.WriteJSON(chunk); err != nil {
				cancel()
				return
			}
		}
	}
}

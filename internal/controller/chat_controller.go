package controller

import (
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/serverutils"
	"ai-dategame-be/internal/service"
	wsHandler "ai-dategame-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ConversationLog(ctx *fiber.Ctx) error
	ClearConversationLog(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	streamHandler *wsHandler.ChatStreamHandler
}

func NewChatController(chatService service.IChatService, streamHandler *wsHandler.ChatStreamHandler) IChatController {
	return &chatController{
		chatService:   chatService,
		streamHandler: streamHandler,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
	h.Get("log", c.ConversationLog)
	h.Delete("log", c.ClearConversationLog)
	h.Get("history/:characterId", c.History)

	h.Use("ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("ws", websocket.New(c.streamHandler.Handle))
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate response", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	characterId, err := uuid.Parse(ctx.Params("characterId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid character id")
	}

	limit := ctx.QueryInt("limit", 50)

	res, err := c.chatService.GetHistory(ctx.Context(), characterId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) ConversationLog(ctx *fiber.Ctx) error {
	res := c.chatService.GetConversationLog(ctx.Query("character_id"))
	return ctx.JSON(serverutils.SuccessResponse("Success get conversation log", res))
}

func (c *chatController) ClearConversationLog(ctx *fiber.Ctx) error {
	c.chatService.ClearConversationLog(ctx.Query("character_id"))
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear conversation log", nil))
}

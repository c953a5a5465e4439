package controller

import (
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/serverutils"
	"ai-dategame-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	DeleteSource(ctx *fiber.Ctx) error
	ListSources(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("upload", c.Upload)
	h.Get("sources", c.ListSources)
	h.Get("stats/:characterId", c.Stats)
	h.Delete("source/:source", c.DeleteSource)
}

func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload knowledge", res))
}

func (c *knowledgeController) DeleteSource(ctx *fiber.Ctx) error {
	source := ctx.Params("source")
	if source == "" {
		return fiber.NewError(fiber.StatusBadRequest, "source is required")
	}

	res, err := c.knowledgeService.DeleteSource(ctx.Context(), source)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete knowledge source", res))
}

func (c *knowledgeController) ListSources(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.ListSources(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge sources", res))
}

func (c *knowledgeController) Stats(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Stats(ctx.Context(), ctx.Params("characterId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge stats", res))
}

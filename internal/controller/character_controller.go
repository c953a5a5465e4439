package controller

import (
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/serverutils"
	"ai-dategame-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICharacterController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type characterController struct {
	characterService service.ICharacterService
}

func NewCharacterController(characterService service.ICharacterService) ICharacterController {
	return &characterController{
		characterService: characterService,
	}
}

func (c *characterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/character/v1")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *characterController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCharacterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.characterService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create character", res))
}

func (c *characterController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid character id")
	}

	var req dto.UpdateCharacterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.characterService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "character not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update character", res))
}

func (c *characterController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid character id")
	}

	if err := c.characterService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete character", nil))
}

func (c *characterController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid character id")
	}

	res, err := c.characterService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "character not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show character", res))
}

func (c *characterController) List(ctx *fiber.Ctx) error {
	res, err := c.characterService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list characters", res))
}

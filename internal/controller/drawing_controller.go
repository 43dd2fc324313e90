package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDrawingController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type drawingController struct {
	service service.IDrawingService
}

func NewDrawingController(service service.IDrawingService) IDrawingController {
	return &drawingController{service: service}
}

func (c *drawingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/drawing/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
}

func (c *drawingController) GetAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	noteId, err := uuid.Parse(ctx.Query("note_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "note_id query param is required")
	}

	res, err := c.service.ListByNote(ctx.Context(), userId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all drawing", res))
}

func (c *drawingController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	var req dto.CreateDrawingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create drawing", res))
}

func (c *drawingController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show drawing", res))
}

func (c *drawingController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateDrawingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update drawing", res))
}

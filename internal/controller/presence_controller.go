package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPresenceController interface {
	RegisterRoutes(r fiber.Router)
	UpdateCursor(ctx *fiber.Ctx) error
	GetCursors(ctx *fiber.Ctx) error
}

type presenceController struct {
	service service.IPresenceService
}

func NewPresenceController(service service.IPresenceService) IPresenceController {
	return &presenceController{service: service}
}

func (c *presenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/presence/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Put("cursor", c.UpdateCursor)
	h.Get("cursor", c.GetCursors)
}

func (c *presenceController) UpdateCursor(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	var req dto.UpdateCursorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateCursor(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update cursor", res))
}

func (c *presenceController) GetCursors(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	noteId, err := uuid.Parse(ctx.Query("note_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "note_id query param is required")
	}

	res, err := c.service.ListCursors(ctx.Context(), userId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get cursors", res))
}

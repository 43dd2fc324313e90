package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITranscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ShowBySession(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type transcriptionController struct {
	service service.ITranscriptionService
}

func NewTranscriptionController(service service.ITranscriptionService) ITranscriptionController {
	return &transcriptionController{service: service}
}

func (c *transcriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/transcription/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Start)
	h.Get("session/:sessionId", c.ShowBySession)
	h.Get(":id", c.Show)
	h.Post(":id/refresh", c.Refresh)
}

func (c *transcriptionController) Start(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	var req dto.StartTranscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start transcription", res))
}

func (c *transcriptionController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show transcription", res))
}

func (c *transcriptionController) ShowBySession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	sessionId := ctx.Params("sessionId")

	res, err := c.service.ShowBySession(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show transcription", res))
}

func (c *transcriptionController) Refresh(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Refresh(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh transcription", res))
}

package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	FormatTranscript(ctx *fiber.Ctx) error
}

type aiController struct {
	service service.IAiService
}

func NewAiController(service service.IAiService) IAiController {
	return &aiController{service: service}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("chat", c.Chat)
	h.Post("format-transcript", c.FormatTranscript)
}

func (c *aiController) Chat(ctx *fiber.Ctx) error {
	var req dto.AiChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ai chat", res))
}

func (c *aiController) FormatTranscript(ctx *fiber.Ctx) error {
	var req dto.FormatTranscriptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.FormatTranscript(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success format transcript", res))
}

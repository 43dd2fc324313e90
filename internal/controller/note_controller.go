package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	GetShared(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	UpdateContent(ctx *fiber.Ctx) error
	MergeContent(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	CancelSync(ctx *fiber.Ctx) error
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	// Registered before ":id" so "shared" is not swallowed by the param route.
	h.Get("shared", c.GetShared)
	h.Get(":id", c.Show)
	h.Put(":id", c.UpdateTitle)
	h.Put(":id/content", c.UpdateContent)
	h.Post(":id/merge", c.MergeContent)
	h.Post(":id/share", c.Share)
	h.Delete(":id", c.Delete)
	h.Delete(":id/sync", c.CancelSync)
}

func (c *noteController) GetAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	notebookId, err := uuid.Parse(ctx.Query("notebook_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "notebook_id query param is required")
	}

	res, err := c.service.List(ctx.Context(), userId, notebookId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all note", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	var req dto.CreateNoteRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) GetShared(ctx *fiber.Ctx) error {
	email := serverutils.EmailFromCtx(ctx)

	res, err := c.service.ListShared(ctx.Context(), email)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get shared notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	email := serverutils.EmailFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Show(ctx.Context(), userId, email, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) UpdateTitle(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateTitle(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) UpdateContent(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateNoteContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateContent(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note content", res))
}

func (c *noteController) MergeContent(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.MergeNoteContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.MergeContent(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success merge note content", res))
}

func (c *noteController) Share(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ShareNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Share(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success share note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}

func (c *noteController) CancelSync(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.CancelSync(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success cancel note sync", nil))
}

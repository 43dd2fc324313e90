package controller

import (
	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/serverutils"
	"notedeck-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AddFolder(ctx *fiber.Ctx) error
	UpdateFolder(ctx *fiber.Ctx) error
	DeleteFolder(ctx *fiber.Ctx) error
	AddNoteToFolder(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebook/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/folder", c.AddFolder)
	h.Put(":id/folder/:folderId", c.UpdateFolder)
	h.Delete(":id/folder/:folderId", c.DeleteFolder)
	h.Put(":id/folder/:folderId/note", c.AddNoteToFolder)
}

func (c *notebookController) GetAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all notebook", res))
}

func (c *notebookController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)

	var req dto.CreateNotebookRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success create notebook", res))
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) Update(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateNotebookRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update notebook", res))
}

func (c *notebookController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete notebook", nil))
}

func (c *notebookController) AddFolder(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NotebookId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddFolder(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create folder", res))
}

func (c *notebookController) UpdateFolder(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NotebookId = id
	req.FolderId = ctx.Params("folderId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateFolder(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update folder", res))
}

func (c *notebookController) DeleteFolder(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))
	folderId := ctx.Params("folderId")

	res, err := c.service.DeleteFolder(ctx.Context(), userId, id, folderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete folder", res))
}

func (c *notebookController) AddNoteToFolder(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromCtx(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.AddNoteToFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NotebookId = id
	req.FolderId = ctx.Params("folderId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddNoteToFolder(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add note to folder", res))
}

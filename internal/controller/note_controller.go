package controller

import (
	"mime/multipart"
	"strconv"
	"strings"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const notesListURL = "/notes/"

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Detail(ctx *fiber.Ctx) error
	NewForm(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	EditForm(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("/", serverutils.RequireAuth, c.List)
	h.Get("/new-note/", serverutils.RequireAuth, c.NewForm)
	h.Post("/new-note/", serverutils.RequireAuth, c.Create)
	h.Post("/delete/", serverutils.RequireAuth, c.Delete)
	h.Get("/:slug/edit/", serverutils.RequireAuth, c.EditForm)
	h.Post("/:slug/edit/", serverutils.RequireAuth, c.Update)
	// public, must stay last so it does not shadow the fixed paths above
	h.Get("/:slug", c.Detail)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)

	res, err := c.noteService.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get notes", res))
}

func (c *noteController) Detail(ctx *fiber.Ctx) error {
	res, err := c.noteService.Detail(ctx.UserContext(), ctx.Params("slug"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) NewForm(ctx *fiber.Ctx) error {
	return serverutils.RenderForm(ctx, "New note", dto.NoteFormView{}, nil)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)

	form, err := bindNoteForm(ctx)
	if err != nil {
		return err
	}
	view := dto.NoteFormView{Title: form.Title, Body: form.Body, Slug: form.Slug}

	if err := serverutils.ValidateRequest(form); err != nil {
		return renderForm(ctx, "New note", view, err)
	}

	// user_id in the body, if any, is ignored; the owner is the session user
	_, err = c.noteService.Create(ctx.UserContext(), userId, form, backgroundFile(ctx))
	if err != nil {
		return renderForm(ctx, "New note", view, err)
	}

	return ctx.Redirect(notesListURL)
}

func (c *noteController) EditForm(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)

	view, err := c.noteService.LoadForEdit(ctx.UserContext(), userId, ctx.Params("slug"))
	if err != nil {
		return err
	}

	return serverutils.RenderForm(ctx, "Edit note", *view, nil)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)
	noteSlug := ctx.Params("slug")

	// 404 for missing or foreign notes before any input is echoed back
	if _, err := c.noteService.LoadForEdit(ctx.UserContext(), userId, noteSlug); err != nil {
		return err
	}

	form, err := bindNoteForm(ctx)
	if err != nil {
		return err
	}
	view := dto.NoteFormView{Title: form.Title, Body: form.Body, Slug: form.Slug, NoteSlug: noteSlug}

	if err := serverutils.ValidateRequest(form); err != nil {
		return renderForm(ctx, "Edit note", view, err)
	}

	_, err = c.noteService.Update(ctx.UserContext(), userId, noteSlug, form, backgroundFile(ctx))
	if err != nil {
		return renderForm(ctx, "Edit note", view, err)
	}

	return ctx.Redirect(notesListURL)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)

	var req dto.DeleteNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	noteId, err := strconv.ParseUint(strings.TrimSpace(req.NoteId), 10, 0)
	if err != nil {
		return apperr.NewValidationError().Add("note_id", "Enter a whole number.")
	}

	if err := c.noteService.Delete(ctx.UserContext(), userId, uint(noteId)); err != nil {
		return err
	}

	return ctx.Redirect(notesListURL)
}

func bindNoteForm(ctx *fiber.Ctx) (*dto.NoteForm, error) {
	var form dto.NoteForm
	if err := ctx.BodyParser(&form); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}
	form.Title = strings.TrimSpace(form.Title)
	form.Body = strings.TrimSpace(form.Body)
	form.Slug = strings.TrimSpace(form.Slug)
	return &form, nil
}

// backgroundFile returns the uploaded image, or nil when none was sent.
func backgroundFile(ctx *fiber.Ctx) *multipart.FileHeader {
	file, err := ctx.FormFile("background")
	if err != nil {
		return nil
	}
	return file
}

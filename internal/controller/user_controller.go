package controller

import (
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	cookie  CookieOptions
}

func NewUserController(service service.IUserService, cookie CookieOptions) IUserController {
	return &userController{
		service: service,
		cookie:  cookie,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Get("/me", serverutils.RequireAuth, c.GetProfile)
	h.Post("/delete", serverutils.RequireAuth, c.DeleteAccount)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetProfile(ctx.UserContext(), mustUserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *userController) DeleteAccount(ctx *fiber.Ctx) error {
	sessionId, _ := serverutils.CurrentSessionID(ctx)

	if err := c.service.DeleteAccount(ctx.UserContext(), mustUserID(ctx), sessionId); err != nil {
		return err
	}

	serverutils.ClearSessionCookie(ctx, c.cookie.Name)
	return ctx.Redirect(notesListURL)
}

package controller

import (
	"strings"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	RegisterForm(ctx *fiber.Ctx) error
	Register(ctx *fiber.Ctx) error
	LoginForm(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

// CookieOptions controls the session cookie handed out on login.
type CookieOptions struct {
	Name   string
	Secure bool
}

type authController struct {
	service service.IAuthService
	cookie  CookieOptions
}

func NewAuthController(service service.IAuthService, cookie CookieOptions) IAuthController {
	return &authController{
		service: service,
		cookie:  cookie,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Get("/register", c.RegisterForm)
	h.Post("/register", c.Register)
	h.Get("/login", c.LoginForm)
	h.Post("/login", c.Login)
	h.Post("/logout", serverutils.RequireAuth, c.Logout)
}

func (c *authController) RegisterForm(ctx *fiber.Ctx) error {
	return serverutils.RenderForm(ctx, "Register", dto.RegisterFormView{}, nil)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}
	req.Username = strings.TrimSpace(req.Username)
	view := dto.RegisterFormView{Username: req.Username}

	if err := serverutils.ValidateRequest(req); err != nil {
		return renderForm(ctx, "Register", view, err)
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return renderForm(ctx, "Register", view, err)
	}

	serverutils.SetSessionCookie(ctx, c.cookie.Name, res.Token, res.ExpiresAt, c.cookie.Secure)
	return ctx.Redirect(notesListURL)
}

func (c *authController) LoginForm(ctx *fiber.Ctx) error {
	return serverutils.RenderForm(ctx, "Login", dto.LoginFormView{Next: ctx.Query("next")}, nil)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form body")
	}
	req.Username = strings.TrimSpace(req.Username)
	view := dto.LoginFormView{Username: req.Username, Next: req.Next}

	if err := serverutils.ValidateRequest(req); err != nil {
		return renderForm(ctx, "Login", view, err)
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return renderForm(ctx, "Login", view, err)
	}

	serverutils.SetSessionCookie(ctx, c.cookie.Name, res.Token, res.ExpiresAt, c.cookie.Secure)
	return ctx.Redirect(serverutils.SafeRedirectTarget(req.Next, notesListURL))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	userId := mustUserID(ctx)
	sessionId, _ := serverutils.CurrentSessionID(ctx)

	if err := c.service.Logout(ctx.UserContext(), userId, sessionId); err != nil {
		return err
	}

	serverutils.ClearSessionCookie(ctx, c.cookie.Name)
	return ctx.Redirect(notesListURL)
}

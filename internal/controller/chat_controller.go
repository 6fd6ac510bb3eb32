package controller

import (
	"fmt"

	"legal-copilot-be/internal/dto"
	"legal-copilot-be/internal/pkg/serverutils"
	"legal-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/chat", authMiddleware)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/sessions/:sessionId/history", c.GetChatHistory)
	h.Post("/message", c.SendMessage)
	h.Delete("/sessions", c.DeleteSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "invalid request body")
		}
	}

	res, err := c.service.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Session created", res)
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
	}

	res, err := c.service.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Sessions retrieved", res)
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
	}

	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "History retrieved", res)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.SendMessageRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Message processed", res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.DeleteSessionRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, &req); err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Session deleted", nil)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing user identity")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user identity")
	}
	return userId, nil
}

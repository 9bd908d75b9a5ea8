// internal/handlers/user.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motohanem/moto-backend/internal/i18n"
	"github.com/motohanem/moto-backend/internal/models"
	"github.com/motohanem/moto-backend/internal/services"
	"github.com/motohanem/moto-backend/internal/utils"
)

type Authenticator interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
}

type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, params utils.PaginationParams) (utils.Page[models.User], error)
}

type UserHandler struct {
	auth  Authenticator
	users UserDirectory
}

func NewUserHandler(auth Authenticator, users UserDirectory) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	response, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.CreatedResponse(c, response)
}

// POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	response, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, response)
}

// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.users.ListUsers(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /users/:id, for the user themself or an admin. Anyone else gets a 404.
func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if caller != id && !isAdmin(c) {
		utils.NotFoundResponse(c, i18n.KeyUserNotFound)
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromService(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

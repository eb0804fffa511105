package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/user のユーザー管理HTTP（管理者のみ）
type UserHandler struct {
	uc *usecase.UserUsecase
}

// DI
func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type usersResponse struct {
	Success bool                  `json:"success"`
	Users   []usecase.UserSummary `json:"users"`
}

type deleteUserRequest struct {
	ID int64 `json:"id"`
}

type deleteUserResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    usecase.UserSummary `json:"user"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/user", middleware.AuthAdmin(cfg))

	g.GET("/list", h.list)
	g.DELETE("/delete", h.deleteUser)
}

func (h *UserHandler) list(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usersResponse{Success: true, Users: users})
}

func (h *UserHandler) deleteUser(c echo.Context) error {
	var req deleteUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	deleted, err := h.uc.DeleteUser(c.Request().Context(), req.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, deleteUserResponse{
		Success: true,
		Message: "User deleted successfully",
		User:    deleted,
	})
}

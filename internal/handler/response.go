package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全レスポンス共通の {success, message|data} envelope

type failResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type validationResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Missing []string `json:"missing"`
}

func fail(msg string) failResponse {
	return failResponse{Success: false, Message: msg}
}

func ok(msg string) messageResponse {
	return messageResponse{Success: true, Message: msg}
}

// usecaseのエラーをstatus付きのenvelopeへ変換する。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	if ve, okv := usecase.AsValidationError(err); okv {
		return c.JSON(http.StatusBadRequest, validationResponse{
			Success: false,
			Message: "Missing or invalid required fields",
			Missing: ve.Missing,
		})
	}

	if he, okh := usecase.AsHTTPError(err); okh {
		return c.JSON(he.Status, fail(he.Message))
	}

	//500
	return c.JSON(http.StatusInternalServerError, fail("internal error"))
}

// AuthUserミドルウェアが入れたuser idを取り出す。
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, okv := v.(int64)
	if !okv || id <= 0 {
		return 0, false
	}
	return id, true
}

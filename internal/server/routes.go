package server

import (
	"app/internal/config"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は各ハンドラーのルートをまとめて登録する。
func RegisterRoutes(e *echo.Echo, cfg config.Config, hs Handlers) {
	hs.Auth.RegisterRoutes(e)
	hs.User.RegisterRoutes(e, cfg)
	hs.Product.RegisterRoutes(e, cfg)
	hs.Cart.RegisterRoutes(e, cfg)
	hs.Order.RegisterRoutes(e, cfg)
}

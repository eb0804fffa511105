package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cart のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	ItemID int64  `json:"itemId"`
	Size   string `json:"size"`
}

type updateCartRequest struct {
	ItemID   int64  `json:"itemId"`
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
}

type cartDataResponse struct {
	Success  bool                       `json:"success"`
	CartData map[int64]map[string]int64 `json:"cartData"`
}

// カートは全部本人のtoken必須
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/cart")
	g.Use(middleware.AuthUser(cfg))

	g.POST("/get", h.getCart)
	g.POST("/add", h.addToCart)
	g.POST("/update", h.updateCart)
	g.POST("/reset", h.resetCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	cartData, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cartDataResponse{Success: true, CartData: cartData})
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	var req addCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	if err := h.uc.AddToCart(c.Request().Context(), userID, req.ItemID, req.Size); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Added To Cart"))
}

func (h *CartHandler) updateCart(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	removed, err := h.uc.UpdateCart(c.Request().Context(), userID, req.ItemID, req.Size, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	if removed {
		return c.JSON(http.StatusOK, ok("Cart Item Removed"))
	}
	return c.JSON(http.StatusOK, ok("Cart Updated"))
}

func (h *CartHandler) resetCart(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	if err := h.uc.ResetCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Cart Reset Successfully"))
}

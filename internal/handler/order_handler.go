package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/order のHTTP
type OrderHandler struct {
	uc    *usecase.OrderUsecase
	feURL string
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, feURL string) *OrderHandler {
	return &OrderHandler{uc: uc, feURL: feURL}
}

type placeOrderRequest struct {
	Items         []usecase.OrderItemInput `json:"items"`
	Amount        float64                  `json:"amount"`
	Address       *model.Address           `json:"address"`
	PaymentMethod string                   `json:"paymentMethod"`
}

type placeOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

type stripeOrderResponse struct {
	Success    bool   `json:"success"`
	SessionURL string `json:"session_url"`
	OrderID    int64  `json:"orderId"`
}

type ordersResponse struct {
	Success bool                  `json:"success"`
	Orders  []usecase.OrderOutput `json:"orders"`
}

type userOrdersResponse struct {
	Success bool                  `json:"success"`
	Data    []usecase.OrderOutput `json:"data"`
}

type updateStatusRequest struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

type updateStatusResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    usecase.OrderOutput `json:"data"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/order")

	//本人のtoken必須
	g.POST("/place", h.place, middleware.AuthUser(cfg))
	g.POST("/stripe", h.placeStripe, middleware.AuthUser(cfg))
	g.GET("/verifyStripe", h.verifyStripe, middleware.AuthUser(cfg))
	g.POST("/userorders", h.userOrders, middleware.AuthUser(cfg))

	//管理者のみ
	g.POST("/list", h.list, middleware.AuthAdmin(cfg))
	g.POST("/status", h.updateStatus, middleware.AuthAdmin(cfg))
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	orderID, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Items:         req.Items,
		Amount:        req.Amount,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, placeOrderResponse{
		Success: true,
		Message: "Order Placed",
		OrderID: orderID,
	})
}

func (h *OrderHandler) placeStripe(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	//リダイレクト先は呼び出し元のOriginに戻す。無ければフロントURL。
	origin := c.Request().Header.Get("Origin")
	if origin == "" {
		origin = h.feURL
	}

	out, err := h.uc.PlaceOrderStripe(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Items:         req.Items,
		Amount:        req.Amount,
		Address:       req.Address,
		PaymentMethod: "Stripe",
	}, origin)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, stripeOrderResponse{
		Success:    true,
		SessionURL: out.SessionURL,
		OrderID:    out.OrderID,
	})
}

func (h *OrderHandler) verifyStripe(c echo.Context) error {
	success := c.QueryParam("success") == "true"

	orderID, _ := strconv.ParseInt(c.QueryParam("orderId"), 10, 64)

	verified, err := h.uc.VerifyStripe(c.Request().Context(), success, orderID)
	if err != nil {
		return writeError(c, err)
	}

	if !verified {
		//決済失敗・キャンセルは注文に触らず失敗だけ返す
		return c.JSON(http.StatusOK, fail("Payment failed"))
	}

	return c.JSON(http.StatusOK, ok("Payment verified"))
}

func (h *OrderHandler) userOrders(c echo.Context) error {
	userID, okc := getUserIDFromContext(c)
	if !okc {
		return c.JSON(http.StatusUnauthorized, fail("Not Authorized. Login Again"))
	}

	orders, err := h.uc.UserOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, userOrdersResponse{Success: true, Data: orders})
}

func (h *OrderHandler) list(c echo.Context) error {
	orders, err := h.uc.AllOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ordersResponse{Success: true, Orders: orders})
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), req.OrderID, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updateStatusResponse{
		Success: true,
		Message: "Status Updated",
		Data:    out,
	})
}

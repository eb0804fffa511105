package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	infrarepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HS256でuser/admin tokenを発行する（本番のissuerと同じclaims形）
type testIssuer struct {
	secret []byte
}

func (i testIssuer) IssueUser(userID int64) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return t.SignedString(i.secret)
}

func (i testIssuer) IssueAdmin(email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	return t.SignedString(i.secret)
}

type testCheckout struct{}

func (testCheckout) CreateSession(ctx context.Context, orderID int64, amount float64, origin string) (string, string, error) {
	return "cs_test_e2e", fmt.Sprintf("%s/pay/%d", origin, orderID), nil
}

// アプリ一式をsqliteで立ち上げる
func newTestServer(t *testing.T) *echoServer {
	t.Helper()

	cfg := config.Config{
		Port:          "0",
		JWTSecret:     "e2e-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-secret",
		FEURL:         "http://localhost:5173",
		UploadDir:     t.TempDir(),
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	))

	userRepo := infrarepo.NewUserGormRepository(db)
	productRepo := infrarepo.NewProductGormRepository(db)
	cartRepo := infrarepo.NewCartGormRepository(db)
	orderRepo := infrarepo.NewOrderGormRepository(db)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(db)
	txManager := infrarepo.NewTxManagerGorm(db)

	issuer := testIssuer{secret: []byte(cfg.JWTSecret)}
	imageStore, err := storage.NewLocalImageStore(cfg.UploadDir, "http://localhost:8899")
	require.NoError(t, err)

	authUC := usecase.NewAuthUsecase(userRepo, issuer, cfg.AdminEmail, cfg.AdminPassword, bcrypt.MinCost)
	userUC := usecase.NewUserUsecase(txManager, userRepo)
	productUC := usecase.NewProductUsecase(productRepo, imageStore)
	cartUC := usecase.NewCartUsecase(userRepo, productRepo, cartRepo)
	orderUC := usecase.NewOrderUsecase(txManager, userRepo, productRepo, orderRepo, orderItemRepo, testCheckout{})

	e := server.New(cfg, server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		User:    handler.NewUserHandler(userUC),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC, cfg.FEURL),
	})

	return &echoServer{e: e}
}

type echoServer struct {
	e http.Handler
}

func (s *echoServer) do(t *testing.T, method string, path string, body io.Reader, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil && headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	}
	return rec, parsed
}

func (s *echoServer) doJSON(t *testing.T, method string, path string, payload any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return s.do(t, method, path, bytes.NewReader(raw), headers)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "API Working", rec.Body.String())
}

func TestShopFlow(t *testing.T) {
	s := newTestServer(t)

	//会員登録
	rec, body := s.doJSON(t, http.MethodPost, "/api/user/register", map[string]any{
		"name":     "Taro",
		"email":    "taro@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Register successful", body["message"])
	userToken, _ := body["token"].(string)
	require.NotEmpty(t, userToken)

	//ログイン
	rec, body = s.doJSON(t, http.MethodPost, "/api/user/login", map[string]any{
		"email":    "taro@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Login Successful", body["message"])

	//管理者ログイン
	rec, body = s.doJSON(t, http.MethodPost, "/api/user/admin", map[string]any{
		"email":    "admin@example.com",
		"password": "admin-secret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken, _ := body["token"].(string)
	require.NotEmpty(t, adminToken)

	//商品追加（multipart、管理者のみ）
	productID := addProduct(t, s, adminToken)

	//公開の商品一覧に載る
	rec, body = s.do(t, http.MethodGet, "/api/product/list", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products, _ := body["products"].([]any)
	require.Len(t, products, 1)

	//カートに2回追加 → 数量2の1行
	rec, body = s.doJSON(t, http.MethodPost, "/api/cart/add", map[string]any{
		"itemId": productID,
		"size":   "M",
	}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Added To Cart", body["message"])

	rec, _ = s.doJSON(t, http.MethodPost, "/api/cart/add", map[string]any{
		"itemId": productID,
		"size":   "M",
	}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.doJSON(t, http.MethodPost, "/api/cart/get", map[string]any{}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	cartData, _ := body["cartData"].(map[string]any)
	require.Len(t, cartData, 1)
	sizes, _ := cartData[fmt.Sprintf("%d", productID)].(map[string]any)
	require.Equal(t, float64(2), sizes["M"])

	//代引きで注文確定
	rec, body = s.doJSON(t, http.MethodPost, "/api/order/place", map[string]any{
		"items": []map[string]any{
			{"itemId": productID, "size": "M", "quantity": 2},
		},
		"amount":        71,
		"address":       testAddressJSON(),
		"paymentMethod": "COD",
	}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Order Placed", body["message"])
	require.NotZero(t, body["orderId"])

	//注文確定でカートは空になる
	rec, body = s.doJSON(t, http.MethodPost, "/api/cart/get", map[string]any{}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	cartData, _ = body["cartData"].(map[string]any)
	require.Empty(t, cartData)

	//本人の注文一覧
	rec, body = s.doJSON(t, http.MethodPost, "/api/order/userorders", map[string]any{}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	data, _ := body["data"].([]any)
	require.Len(t, data, 1)

	//管理者の全注文一覧
	rec, body = s.doJSON(t, http.MethodPost, "/api/order/list", map[string]any{}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	orders, _ := body["orders"].([]any)
	require.Len(t, orders, 1)
	first, _ := orders[0].(map[string]any)
	orderID := first["id"]

	//ステータス更新（小文字でも正規化される）
	rec, body = s.doJSON(t, http.MethodPost, "/api/order/status", map[string]any{
		"orderId": orderID,
		"status":  "shipped",
	}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Status Updated", body["message"])
	updated, _ := body["data"].(map[string]any)
	require.Equal(t, "Shipped", updated["status"])
}

func TestStripeFlow(t *testing.T) {
	s := newTestServer(t)

	userToken := registerUser(t, s, "taro@example.com")
	adminToken := loginAdmin(t, s)
	productID := addProduct(t, s, adminToken)

	//カード決済の注文確定 → checkoutセッションURL
	rec, body := s.doJSON(t, http.MethodPost, "/api/order/stripe", map[string]any{
		"items": []map[string]any{
			{"itemId": productID, "size": "M", "quantity": 1},
		},
		"amount":  35.5,
		"address": testAddressJSON(),
	}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	orderID := int64(body["orderId"].(float64))
	require.Equal(t, fmt.Sprintf("http://localhost:5173/pay/%d", orderID), body["session_url"])

	//決済成功のリダイレクトを受ける
	rec, body = s.do(t, http.MethodGet,
		fmt.Sprintf("/api/order/verifyStripe?success=true&orderId=%d", orderID),
		nil, map[string]string{"Authorization": "Bearer " + userToken})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Payment verified", body["message"])

	//支払い済み・Order Placedで一覧に出る
	rec, body = s.doJSON(t, http.MethodPost, "/api/order/userorders", map[string]any{}, userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	data, _ := body["data"].([]any)
	require.Len(t, data, 1)
	order, _ := data[0].(map[string]any)
	require.Equal(t, true, order["payment"])
	require.Equal(t, "Order Placed", order["status"])

	//決済失敗は200でsuccess=false
	rec, body = s.do(t, http.MethodGet,
		fmt.Sprintf("/api/order/verifyStripe?success=false&orderId=%d", orderID),
		nil, map[string]string{"Authorization": "Bearer " + userToken})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Payment failed", body["message"])
}

func TestGuards(t *testing.T) {
	s := newTestServer(t)

	userToken := registerUser(t, s, "taro@example.com")

	t.Run("cart requires a user token", func(t *testing.T) {
		rec, body := s.doJSON(t, http.MethodPost, "/api/cart/add", map[string]any{
			"itemId": 1, "size": "M",
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, false, body["success"])
	})

	t.Run("admin routes reject user tokens", func(t *testing.T) {
		rec, _ := s.doJSON(t, http.MethodPost, "/api/order/list", map[string]any{}, userToken)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user list is admin only", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/user/list", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		adminToken := loginAdmin(t, s)
		rec, body := s.do(t, http.MethodGet, "/api/user/list", nil,
			map[string]string{"Authorization": "Bearer " + adminToken})
		require.Equal(t, http.StatusOK, rec.Code)
		users, _ := body["users"].([]any)
		require.Len(t, users, 1)
	})

	t.Run("order place validation enumerates missing fields", func(t *testing.T) {
		rec, body := s.doJSON(t, http.MethodPost, "/api/order/place", map[string]any{}, userToken)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing or invalid required fields", body["message"])
		missing, _ := body["missing"].([]any)
		require.Equal(t, []any{"items", "amount", "address", "paymentMethod"}, missing)
	})
}

func TestAdminUserDelete(t *testing.T) {
	s := newTestServer(t)

	registerUser(t, s, "taro@example.com")
	adminToken := loginAdmin(t, s)

	rec, body := s.do(t, http.MethodGet, "/api/user/list", nil,
		map[string]string{"Authorization": "Bearer " + adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	users, _ := body["users"].([]any)
	require.Len(t, users, 1)
	target, _ := users[0].(map[string]any)

	raw, err := json.Marshal(map[string]any{"id": target["id"]})
	require.NoError(t, err)
	rec, body = s.do(t, http.MethodDelete, "/api/user/delete", bytes.NewReader(raw),
		map[string]string{"Authorization": "Bearer " + adminToken, "Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User deleted successfully", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/user/list", nil,
		map[string]string{"Authorization": "Bearer " + adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	users, _ = body["users"].([]any)
	require.Empty(t, users)
}

func registerUser(t *testing.T, s *echoServer, email string) string {
	t.Helper()

	_, body := s.doJSON(t, http.MethodPost, "/api/user/register", map[string]any{
		"name":     "Taro",
		"email":    email,
		"password": "password123",
	}, "")
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func loginAdmin(t *testing.T, s *echoServer) string {
	t.Helper()

	_, body := s.doJSON(t, http.MethodPost, "/api/user/admin", map[string]any{
		"email":    "admin@example.com",
		"password": "admin-secret",
	}, "")
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// multipartで商品を1件追加してIDを返す
func addProduct(t *testing.T, s *echoServer, adminToken string) int64 {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Linen Shirt"))
	require.NoError(t, w.WriteField("description", "Lightweight"))
	require.NoError(t, w.WriteField("price", "35.5"))
	require.NoError(t, w.WriteField("category", "Men"))
	require.NoError(t, w.WriteField("subCategory", "Topwear"))
	require.NoError(t, w.WriteField("sizes", `["S","M","L"]`))
	require.NoError(t, w.WriteField("bestseller", "true"))

	fw, err := w.CreateFormFile("image1", "front.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec, body := s.do(t, http.MethodPost, "/api/product/add", &buf, map[string]string{
		"Authorization": "Bearer " + adminToken,
		"Content-Type":  w.FormDataContentType(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Product Added", body["message"])

	result, _ := body["result"].(map[string]any)
	id, _ := result["id"].(float64)
	require.NotZero(t, id)

	//画像はURLに置き換わっている
	images, _ := result["image"].([]any)
	require.Len(t, images, 1)

	return int64(id)
}

func testAddressJSON() map[string]any {
	return map[string]any{
		"firstName": "Taro",
		"lastName":  "Yamada",
		"email":     "taro@example.com",
		"street":    "1-2-3 Chiyoda",
		"city":      "Tokyo",
		"state":     "Tokyo",
		"zipcode":   "100-0001",
		"country":   "JP",
		"phone":     "090-0000-0000",
	}
}

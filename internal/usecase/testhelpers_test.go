package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"app/internal/domain/model"
	infrarepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立したin-memory DBを開く
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

type testRepos struct {
	users      *infrarepo.UserGormRepository
	products   *infrarepo.ProductGormRepository
	carts      *infrarepo.CartGormRepository
	orders     *infrarepo.OrderGormRepository
	orderItems *infrarepo.OrderItemGormRepository
	tx         *infrarepo.TxManagerGorm
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		users:      infrarepo.NewUserGormRepository(db),
		products:   infrarepo.NewProductGormRepository(db),
		carts:      infrarepo.NewCartGormRepository(db),
		orders:     infrarepo.NewOrderGormRepository(db),
		orderItems: infrarepo.NewOrderItemGormRepository(db),
		tx:         infrarepo.NewTxManagerGorm(db),
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string, email string) model.User {
	t.Helper()

	u := model.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) model.Product {
	t.Helper()

	p := model.Product{
		Name:     name,
		Price:    price,
		Image:    []string{"http://localhost:8899/uploads/" + name + ".png"},
		Category: "Men",
		Sizes:    []string{"S", "M", "L"},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func testAddress() *model.Address {
	return &model.Address{
		FirstName: "Taro",
		LastName:  "Yamada",
		Email:     "taro@example.com",
		Street:    "1-2-3 Chiyoda",
		City:      "Tokyo",
		State:     "Tokyo",
		Zipcode:   "100-0001",
		Country:   "JP",
		Phone:     "090-0000-0000",
	}
}

// statusとmessageまで突き合わせる
func requireHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status)
	require.Equal(t, message, he.Message)
}

// TokenIssuerのスタブ。署名はしない。
type stubIssuer struct{}

func (stubIssuer) IssueUser(userID int64) (string, error) {
	return fmt.Sprintf("user-token-%d", userID), nil
}

func (stubIssuer) IssueAdmin(email string) (string, error) {
	return "admin-token-" + email, nil
}

// CheckoutProviderのフェイク。呼び出し内容を記録する。
type fakeCheckout struct {
	calls       int
	lastOrderID int64
	lastAmount  float64
	lastOrigin  string
	err         error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, orderID int64, amount float64, origin string) (string, string, error) {
	f.calls++
	f.lastOrderID = orderID
	f.lastAmount = amount
	f.lastOrigin = origin

	if f.err != nil {
		return "", "", f.err
	}
	return "cs_test_123", origin + "/pay/cs_test_123", nil
}

func daysAgo(n int) time.Time {
	return time.Now().Add(-time.Duration(n) * 24 * time.Hour)
}

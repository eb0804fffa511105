package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CheckoutProvider は決済プロバイダのhosted checkoutセッションを作る約束。
// sessionIDとリダイレクト先URLを返す。
type CheckoutProvider interface {
	CreateSession(ctx context.Context, orderID int64, amount float64, origin string) (sessionID string, url string, err error)
}

// OrderUsecase は注文確定・決済確認・一覧・ステータス更新。
type OrderUsecase struct {
	tx            repo.TransactionManager
	userRepo      repo.UserRepository
	productRepo   repo.ProductRepository
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	checkout      CheckoutProvider
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	checkout CheckoutProvider,
) *OrderUsecase {
	return &OrderUsecase{
		tx:            tx,
		userRepo:      userRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		checkout:      checkout,
	}
}

type OrderItemInput struct {
	ItemID   int64  `json:"itemId"`
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
}

type PlaceOrderInput struct {
	Items         []OrderItemInput
	Amount        float64
	Address       *model.Address
	PaymentMethod string
}

// PlaceOrder は非カード決済の注文確定。
// 注文行＋明細＋カート全削除を1トランザクションで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (int64, error) {
	//欠けているフィールドを全部列挙してから400
	missing := []string{}
	if userID <= 0 {
		missing = append(missing, "userId")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) {
		missing = append(missing, "amount")
	}
	if in.Address == nil {
		missing = append(missing, "address")
	}
	if in.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if len(missing) > 0 {
		return 0, NewValidationError(missing)
	}

	//ユーザー存在チェック
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, model.Order{
			UserID:        userID,
			Amount:        in.Amount,
			Address:       *in.Address,
			PaymentMethod: in.PaymentMethod,
			Payment:       false,
			Status:        model.OrderStatusPlaced,
			Date:          time.Now(),
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, id, snapshotItems(in.Items)); err != nil {
			return err
		}

		//確定したカートは丸ごと空にする
		if err := r.Carts().ClearByUserID(ctx, userID); err != nil {
			return err
		}

		orderID = id
		return nil
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return orderID, nil
}

type StripeOrderOutput struct {
	OrderID    int64
	SessionURL string
}

// PlaceOrderStripe はカード決済の注文確定。
// 注文＋明細＋カート削除を先にトランザクションで永続化してから
// checkoutセッションを作る。リダイレクト前に注文が確実に存在するので、
// successコールバックに照合対象が必ずある。カートは確定時に消すため、
// 決済を放棄しても古いカートは残らない。
func (u *OrderUsecase) PlaceOrderStripe(ctx context.Context, userID int64, in PlaceOrderInput, origin string) (StripeOrderOutput, error) {
	if userID <= 0 {
		return StripeOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return StripeOrderOutput{}, NewHTTPError(http.StatusBadRequest, "Items are required")
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) {
		return StripeOrderOutput{}, NewHTTPError(http.StatusBadRequest, "Valid amount required")
	}
	if in.Address == nil {
		return StripeOrderOutput{}, NewHTTPError(http.StatusBadRequest, "Address required")
	}

	//ユーザー存在チェック
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return StripeOrderOutput{}, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return StripeOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, model.Order{
			UserID:        userID,
			Amount:        in.Amount,
			Address:       *in.Address,
			PaymentMethod: "Stripe",
			Payment:       false,
			Status:        model.OrderStatusPending,
			Date:          time.Now(),
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, id, snapshotItems(in.Items)); err != nil {
			return err
		}

		if err := r.Carts().ClearByUserID(ctx, userID); err != nil {
			return err
		}

		orderID = id
		return nil
	})
	if err != nil {
		return StripeOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//トランザクションの外で決済プロバイダを呼ぶ
	sessionID, url, err := u.checkout.CreateSession(ctx, orderID, in.Amount, origin)
	if err != nil {
		return StripeOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to process Stripe payment")
	}

	if err := u.orderRepo.SetStripeSessionID(ctx, orderID, sessionID); err != nil {
		return StripeOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return StripeOrderOutput{OrderID: orderID, SessionURL: url}, nil
}

// VerifyStripe は決済プロバイダのリダイレクトを受けてローカルの注文状態と
// 照合する。success=trueならpayment=true・status="Order Placed"にする。
// 同じ注文で再実行しても同じ2フィールドを再設定するだけ（冪等）。
// success=falseなら何も変更しない。
func (u *OrderUsecase) VerifyStripe(ctx context.Context, success bool, orderID int64) (bool, error) {
	if !success || orderID <= 0 {
		return false, nil
	}

	if _, err := u.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, NewHTTPError(http.StatusNotFound, "Order not found")
		}
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orderRepo.MarkPaid(ctx, orderID); err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return true, nil
}

type ProductSnapshot struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Image []string `json:"image"`
}

type OrderItemOutput struct {
	ProductID int64            `json:"product_id"`
	Size      string           `json:"size"`
	Quantity  int64            `json:"quantity"`
	Product   *ProductSnapshot `json:"product,omitempty"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Amount        float64           `json:"amount"`
	Address       model.Address     `json:"address"`
	PaymentMethod string            `json:"paymentMethod"`
	Payment       bool              `json:"payment"`
	Status        string            `json:"status"`
	Date          time.Time         `json:"date"`
	Items         []OrderItemOutput `json:"items"`
}

// AllOrders は全注文（管理者用）。明細と商品スナップショット付き、新しい順。
func (u *OrderUsecase) AllOrders(ctx context.Context) ([]OrderOutput, error) {
	orders, err := u.orderRepo.ListAllNewestFirst(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildOrderOutputs(ctx, orders)
}

// UserOrders は本人の注文のみ。新しい順。
func (u *OrderUsecase) UserOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orderRepo.ListByUserIDNewestFirst(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildOrderOutputs(ctx, orders)
}

// UpdateStatus は配送ステータスを更新する（管理者用）。
// 入力は大文字小文字を問わず、先頭だけ大文字に正規化して保存する。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (OrderOutput, error) {
	if orderID <= 0 || strings.TrimSpace(status) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "Order ID and status are required")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	normalized := NormalizeStatus(status)
	if err := u.orderRepo.UpdateStatus(ctx, orderID, normalized); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order.Status = normalized
	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toOrderOutput(ctx, order, items), nil
}

// NormalizeStatus は先頭1文字だけ大文字、残りは小文字にする。
// "shipped" / "SHIPPED" / "Shipped" は全部 "Shipped" になる。
func NormalizeStatus(s string) model.OrderStatus {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	r := []rune(s)
	return model.OrderStatus(strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:])))
}

// quantityが0以下の入力は1として扱う
func snapshotItems(items []OrderItemInput) []model.OrderItem {
	rows := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		rows = append(rows, model.OrderItem{
			ProductID: it.ItemID,
			Size:      it.Size,
			Quantity:  qty,
		})
	}
	return rows
}

func (u *OrderUsecase) buildOrderOutputs(ctx context.Context, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, u.toOrderOutput(ctx, o, items))
	}
	return outs, nil
}

func (u *OrderUsecase) toOrderOutput(ctx context.Context, o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItem := OrderItemOutput{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
		}

		//商品が後から消えていてもスナップショット無しで明細は返す
		if p, err := u.productRepo.FindByID(ctx, it.ProductID); err == nil {
			outItem.Product = &ProductSnapshot{
				ID:    p.ID,
				Name:  p.Name,
				Price: p.Price,
				Image: p.Image,
			}
		}

		outItems = append(outItems, outItem)
	}

	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		Amount:        o.Amount,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		Payment:       o.Payment,
		Status:        string(o.Status),
		Date:          o.Date,
		Items:         outItems,
	}
}

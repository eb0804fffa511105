package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は本人のカート行だけを操作する。
type CartUsecase struct {
	userRepo    repo.UserRepository
	productRepo repo.ProductRepository
	cartRepo    repo.CartRepository
}

// DI
func NewCartUsecase(
	userRepo repo.UserRepository,
	productRepo repo.ProductRepository,
	cartRepo repo.CartRepository,
) *CartUsecase {
	return &CartUsecase{
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// AddToCart は (user, product, size) の行に1個追加する。
// 行が無ければquantity=1で作成。加算はストア側のatomic upsertで行う。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, productID int64, size string) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || size == "" {
		return NewHTTPError(http.StatusBadRequest, "itemId and size are required")
	}

	//ユーザー存在チェック
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//商品存在チェック
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.AddOne(ctx, userID, productID, size); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// UpdateCart は数量を指定値にする。0以下なら行ごと削除。
// 対象の行が無ければNotFound。削除されたかどうかを返す。
func (u *CartUsecase) UpdateCart(ctx context.Context, userID int64, productID int64, size string, quantity int64) (bool, error) {
	if userID <= 0 {
		return false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || size == "" {
		return false, NewHTTPError(http.StatusBadRequest, "itemId and size are required")
	}

	//ユーザー存在チェック
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, NewHTTPError(http.StatusNotFound, "User not found")
		}
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartRepo.FindByUserProductSize(ctx, userID, productID, size)
	if errors.Is(err, repo.ErrNotFound) {
		return false, NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//0以下はゼロ行として保存せず削除する
	if quantity <= 0 {
		if err := u.cartRepo.DeleteByID(ctx, item.ID); err != nil {
			return false, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return true, nil
	}

	if err := u.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return false, nil
}

// GetCart は productID → size → quantity のマッピングを返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (map[int64]map[string]int64, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartData := map[int64]map[string]int64{}
	for _, it := range items {
		if cartData[it.ProductID] == nil {
			cartData[it.ProductID] = map[string]int64{}
		}
		cartData[it.ProductID][it.Size] = it.Quantity
	}

	return cartData, nil
}

// ResetCart はユーザーのカートを空にする。既に空なら何もしない。
func (u *CartUsecase) ResetCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ユーザー存在チェック
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.ClearByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

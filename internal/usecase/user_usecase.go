package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// UserUsecase はユーザー管理（管理者のみ）。
type UserUsecase struct {
	tx       repo.TransactionManager
	userRepo repo.UserRepository
}

// DI
func NewUserUsecase(tx repo.TransactionManager, userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{tx: tx, userRepo: userRepo}
}

type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsers は全ユーザーのid/name/emailを新しい順で返す。
func (u *UserUsecase) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := u.userRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to list users")
	}

	outs := make([]UserSummary, 0, len(users))
	for _, usr := range users {
		outs = append(outs, UserSummary{ID: usr.ID, Name: usr.Name, Email: usr.Email})
	}

	return outs, nil
}

// DeleteUser はユーザーと、そのユーザーのカート行・注文・注文明細を
// 1トランザクションで全部消す。外部キーの孤児を残さない。
func (u *UserUsecase) DeleteUser(ctx context.Context, userID int64) (UserSummary, error) {
	if userID <= 0 {
		return UserSummary{}, NewHTTPError(http.StatusBadRequest, "User ID is required")
	}

	var deleted model.User

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		usr, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}

		//カート行を全削除
		if err := r.Carts().ClearByUserID(ctx, userID); err != nil {
			return err
		}

		//注文明細→注文の順で削除
		orders, err := r.Orders().ListByUserIDNewestFirst(ctx, userID)
		if err != nil {
			return err
		}
		orderIDs := make([]int64, 0, len(orders))
		for _, o := range orders {
			orderIDs = append(orderIDs, o.ID)
		}
		if err := r.OrderItems().DeleteByOrderIDs(ctx, orderIDs); err != nil {
			return err
		}
		if err := r.Orders().DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		//最後にユーザー本体
		if err := r.Users().DeleteByID(ctx, userID); err != nil {
			return err
		}

		deleted = usr
		return nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return UserSummary{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return UserSummary{}, NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}

	return UserSummary{ID: deleted.ID, Name: deleted.Name, Email: deleted.Email}, nil
}

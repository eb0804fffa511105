package repository_test

import (
	"context"
	"fmt"
	"testing"

	"app/internal/domain/model"
	infrarepo "app/internal/infra/repository"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CartItem{}))
	return db
}

func TestCartAddOne(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts into a single row", func(t *testing.T) {
		db := openTestDB(t)
		r := infrarepo.NewCartGormRepository(db)

		//同じ (user, product, size) は何度足しても1行
		for i := 0; i < 3; i++ {
			require.NoError(t, r.AddOne(ctx, 1, 10, "M"))
		}

		item, err := r.FindByUserProductSize(ctx, 1, 10, "M")
		require.NoError(t, err)
		require.Equal(t, int64(3), item.Quantity)

		var count int64
		require.NoError(t, db.Model(&model.CartItem{}).Count(&count).Error)
		require.Equal(t, int64(1), count)
	})

	t.Run("distinct keys get their own rows", func(t *testing.T) {
		db := openTestDB(t)
		r := infrarepo.NewCartGormRepository(db)

		require.NoError(t, r.AddOne(ctx, 1, 10, "M"))
		require.NoError(t, r.AddOne(ctx, 1, 10, "L"))
		require.NoError(t, r.AddOne(ctx, 1, 11, "M"))
		require.NoError(t, r.AddOne(ctx, 2, 10, "M"))

		var count int64
		require.NoError(t, db.Model(&model.CartItem{}).Count(&count).Error)
		require.Equal(t, int64(4), count)
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	db := openTestDB(t)
	r := infrarepo.NewCartGormRepository(db)

	require.NoError(t, r.AddOne(ctx, 1, 10, "M"))
	item, err := r.FindByUserProductSize(ctx, 1, 10, "M")
	require.NoError(t, err)

	require.NoError(t, r.UpdateQuantity(ctx, item.ID, 7))

	item, err = r.FindByUserProductSize(ctx, 1, 10, "M")
	require.NoError(t, err)
	require.Equal(t, int64(7), item.Quantity)

	require.ErrorIs(t, r.UpdateQuantity(ctx, 999, 1), repo.ErrNotFound)
}

func TestCartClearByUserID(t *testing.T) {
	ctx := context.Background()

	db := openTestDB(t)
	r := infrarepo.NewCartGormRepository(db)

	require.NoError(t, r.AddOne(ctx, 1, 10, "M"))
	require.NoError(t, r.AddOne(ctx, 1, 11, "M"))
	require.NoError(t, r.AddOne(ctx, 2, 10, "M"))

	require.NoError(t, r.ClearByUserID(ctx, 1))

	items, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = r.ListByUserID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)

	//空でもエラーにならない
	require.NoError(t, r.ClearByUserID(ctx, 1))
}

package usecase_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ImageStoreのフェイク。保存順にURLを返す。
type fakeImageStore struct {
	saved []string
}

func (f *fakeImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := "http://localhost:8899/uploads/" + filename
	f.saved = append(f.saved, url)
	return url, nil
}

func newProductUsecase(t *testing.T) (*usecase.ProductUsecase, *fakeImageStore, testRepos, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	rs := newTestRepos(db)
	images := &fakeImageStore{}
	uc := usecase.NewProductUsecase(rs.products, images)
	return uc, images, rs, db
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("stores images in order and persists the product", func(t *testing.T) {
		uc, images, rs, _ := newProductUsecase(t)

		p, err := uc.AddProduct(ctx, usecase.AddProductInput{
			Name:        "Linen Shirt",
			Description: "Lightweight",
			Price:       35.5,
			Category:    "Men",
			SubCategory: "Topwear",
			Sizes:       []string{"S", "M"},
			BestSeller:  true,
			Images: []usecase.ImageUpload{
				{Filename: "front.png", Reader: strings.NewReader("front")},
				{Filename: "back.png", Reader: strings.NewReader("back")},
			},
		})
		require.NoError(t, err)
		require.Positive(t, p.ID)
		require.Equal(t, []string{
			"http://localhost:8899/uploads/front.png",
			"http://localhost:8899/uploads/back.png",
		}, p.Image)
		require.Equal(t, p.Image, images.saved)

		stored, err := rs.products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, "Linen Shirt", stored.Name)
		require.Equal(t, []string{"S", "M"}, stored.Sizes)
		require.True(t, stored.BestSeller)
	})

	t.Run("missing name", func(t *testing.T) {
		uc, _, _, _ := newProductUsecase(t)

		_, err := uc.AddProduct(ctx, usecase.AddProductInput{Name: "  ", Price: 10})
		requireHTTPError(t, err, http.StatusBadRequest, "Product name is required")
	})

	t.Run("negative price", func(t *testing.T) {
		uc, _, _, _ := newProductUsecase(t)

		_, err := uc.AddProduct(ctx, usecase.AddProductInput{Name: "Shirt", Price: -1})
		requireHTTPError(t, err, http.StatusBadRequest, "Valid price required")
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields but keeps images", func(t *testing.T) {
		uc, _, _, db := newProductUsecase(t)
		p := seedProduct(t, db, "shirt", 25)

		updated, err := uc.UpdateProduct(ctx, usecase.UpdateProductInput{
			ID:          p.ID,
			Name:        "Premium Shirt",
			Description: "Updated",
			Price:       45,
			Category:    "Women",
			SubCategory: "Topwear",
			Sizes:       []string{"M", "L", "XL"},
			BestSeller:  false,
		})
		require.NoError(t, err)
		require.Equal(t, "Premium Shirt", updated.Name)
		require.Equal(t, float64(45), updated.Price)
		require.Equal(t, []string{"M", "L", "XL"}, updated.Sizes)

		//画像は更新対象外
		require.Equal(t, p.Image, updated.Image)
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _, _, _ := newProductUsecase(t)

		_, err := uc.UpdateProduct(ctx, usecase.UpdateProductInput{ID: 999, Name: "Shirt", Price: 10})
		requireHTTPError(t, err, http.StatusNotFound, "Product not found")
	})
}

func TestGetAndListProducts(t *testing.T) {
	ctx := context.Background()

	uc, _, _, db := newProductUsecase(t)
	p := seedProduct(t, db, "shirt", 25)

	t.Run("get", func(t *testing.T) {
		got, err := uc.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, "shirt", got.Name)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := uc.GetProduct(ctx, 999)
		requireHTTPError(t, err, http.StatusNotFound, "Product not found")
	})

	t.Run("list", func(t *testing.T) {
		items, err := uc.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
	})
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()

	uc, _, _, db := newProductUsecase(t)
	p := seedProduct(t, db, "shirt", 25)

	require.NoError(t, uc.RemoveProduct(ctx, p.ID))

	_, err := uc.GetProduct(ctx, p.ID)
	requireHTTPError(t, err, http.StatusNotFound, "Product not found")

	//既に消えている商品の削除はNotFound
	err = uc.RemoveProduct(ctx, p.ID)
	requireHTTPError(t, err, http.StatusNotFound, "Product not found")
}

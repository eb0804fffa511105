package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ImageStore は画像を保存して配信URLを返す約束。
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ProductUsecase はカタログのCRUD（作成/更新/削除は管理者のみ）。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	images      ImageStore
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, images ImageStore) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		images:      images,
	}
}

// ListProducts はカタログ全件を新しい順で返す。
func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.productRepo.ListNewestFirst(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// GetProduct は商品を1件返す。
func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product ID is required")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

type AddProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	SubCategory string
	Sizes       []string
	BestSeller  bool
	Images      []ImageUpload
}

// AddProduct は画像をアップロードしてから商品を作成する。
func (u *ProductUsecase) AddProduct(ctx context.Context, in AddProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Valid price required")
	}

	//画像を保存してURLのリストに置き換える（順序を保持）
	urls := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		url, err := u.images.Save(ctx, img.Filename, img.Reader)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to add product")
		}
		urls = append(urls, url)
	}

	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Image:       urls,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Sizes:       in.Sizes,
		BestSeller:  in.BestSeller,
	}

	id, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to add product")
	}

	p.ID = id
	return p, nil
}

type UpdateProductInput struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	SubCategory string
	Sizes       []string
	BestSeller  bool
}

// UpdateProduct は画像以外のフィールドを更新する。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, in UpdateProductInput) (model.Product, error) {
	if in.ID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product ID is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Valid price required")
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          in.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Sizes:       in.Sizes,
		BestSeller:  in.BestSeller,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to update product")
	}

	p, err := u.productRepo.FindByID(ctx, in.ID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

// RemoveProduct は商品を削除する。
func (u *ProductUsecase) RemoveProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "Product ID is required")
	}

	err := u.productRepo.DeleteByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

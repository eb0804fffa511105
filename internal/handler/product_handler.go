package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 1商品あたりの画像上限
const maxProductImages = 5

// /api/product のHTTP
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productsResponse struct {
	Success  bool            `json:"success"`
	Products []model.Product `json:"products"`
}

type productResponse struct {
	Success bool          `json:"success"`
	Product model.Product `json:"product"`
}

type addProductResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Result  model.Product `json:"result"`
}

type updateProductRequest struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Sizes       []string `json:"sizes"`
	BestSeller  bool     `json:"bestseller"`
}

type updateProductResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Product model.Product `json:"product"`
}

type removeProductRequest struct {
	ID int64 `json:"id"`
}

// 読み取りは公開、書き込みは管理者のみ
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/product")

	g.GET("/list", h.list)
	g.GET("/:id", h.single)

	g.POST("/add", h.add, middleware.AuthAdmin(cfg))
	g.POST("/update", h.update, middleware.AuthAdmin(cfg))
	g.DELETE("/remove", h.remove, middleware.AuthAdmin(cfg))
}

func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, productsResponse{Success: true, Products: products})
}

func (h *ProductHandler) single(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("Product ID is required"))
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, productResponse{Success: true, Product: p})
}

// multipart form: スカラーはform field、画像は image1..image5。
// sizesはJSON配列文字列、bestsellerは"true"/"false"で届く。
func (h *ProductHandler) add(c echo.Context) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	category := c.FormValue("category")
	subCategory := c.FormValue("subCategory")

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("Valid price required"))
	}

	var sizes []string
	if raw := c.FormValue("sizes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			return c.JSON(http.StatusBadRequest, fail("sizes must be a JSON array"))
		}
	}

	bestSeller := c.FormValue("bestseller") == "true"

	//image1..image5 の順に集める（欠番は詰める）
	images := make([]usecase.ImageUpload, 0, maxProductImages)
	for i := 1; i <= maxProductImages; i++ {
		fh, ferr := c.FormFile(fmt.Sprintf("image%d", i))
		if ferr != nil {
			continue
		}
		f, ferr := fh.Open()
		if ferr != nil {
			return c.JSON(http.StatusInternalServerError, fail("Failed to add product"))
		}
		defer f.Close()
		images = append(images, usecase.ImageUpload{Filename: fh.Filename, Reader: f})
	}

	p, err := h.uc.AddProduct(c.Request().Context(), usecase.AddProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		SubCategory: subCategory,
		Sizes:       sizes,
		BestSeller:  bestSeller,
		Images:      images,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, addProductResponse{
		Success: true,
		Message: "Product Added",
		Result:  p,
	})
}

func (h *ProductHandler) update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), usecase.UpdateProductInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Sizes:       req.Sizes,
		BestSeller:  req.BestSeller,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updateProductResponse{
		Success: true,
		Message: "Product updated successfully",
		Product: p,
	})
}

func (h *ProductHandler) remove(c echo.Context) error {
	var req removeProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	if err := h.uc.RemoveProduct(c.Request().Context(), req.ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Product Removed"))
}

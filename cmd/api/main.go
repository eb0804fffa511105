package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/payment"
	infrarepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// tokenの有効期限
const tokenTTL = 15 * 24 * time.Hour

// jwtIssuer はHS256でuser/admin tokenを発行する。
type jwtIssuer struct {
	secret []byte
}

func (j jwtIssuer) IssueUser(userID int64) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString(j.secret)
}

func (j jwtIssuer) IssueAdmin(email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString(j.secret)
}

func main() {
	//.envはあれば読む（無くても環境変数で動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// repository
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	cartRepo := infrarepo.NewCartGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infrarepo.NewOrderItemGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	// infra
	issuer := jwtIssuer{secret: []byte(cfg.JWTSecret)}
	checkout := payment.NewStripeCheckout(cfg.StripeSecretKey)
	imageStore, err := storage.NewLocalImageStore(cfg.UploadDir, "http://localhost:"+cfg.Port)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// usecase
	authUC := usecase.NewAuthUsecase(userRepo, issuer, cfg.AdminEmail, cfg.AdminPassword, 0)
	userUC := usecase.NewUserUsecase(txManager, userRepo)
	productUC := usecase.NewProductUsecase(productRepo, imageStore)
	cartUC := usecase.NewCartUsecase(userRepo, productRepo, cartRepo)
	orderUC := usecase.NewOrderUsecase(txManager, userRepo, productRepo, orderRepo, orderItemRepo, checkout)

	// handler
	hs := server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		User:    handler.NewUserHandler(userUC),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC, cfg.FEURL),
	}

	e := server.New(cfg, hs)
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

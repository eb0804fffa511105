package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer はbearerトークンを発行する約束。
// user tokenは {id}、admin tokenは {email} を署名する。
type TokenIssuer interface {
	IssueUser(userID int64) (string, error)
	IssueAdmin(email string) (string, error)
}

// AuthUsecase は登録・ログイン・管理者ログイン。
type AuthUsecase struct {
	userRepo      repo.UserRepository
	issuer        TokenIssuer
	adminEmail    string
	adminPassword string
	bcryptCost    int
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	issuer TokenIssuer,
	adminEmail string,
	adminPassword string,
	bcryptCost int,
) *AuthUsecase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthUsecase{
		userRepo:      userRepo,
		issuer:        issuer,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		bcryptCost:    bcryptCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthOutput struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register は会員登録してuser tokenを返す。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	//必須チェック
	if name == "" || email == "" || password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "Please fill all data")
	}

	//email形式
	if !isEmailLike(email) {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "Please enter a valid email")
	}

	//パスワード最低文字数
	if len(password) < 8 {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "Please enter a strong password")
	}

	//email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "User already exists")
	}

	//パスワードをハッシュ化
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, err := u.issuer.IssueUser(user.ID)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//返すときはpasswordを空にして漏洩防止
	safe := *user
	safe.Password = ""

	return AuthOutput{User: safe, Token: token}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login は認証してuser tokenを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	if email == "" || password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "Please fill all data")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "User doesn't exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "Invalid Login")
	}

	token, err := u.issuer.IssueUser(user.ID)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	safe := *user
	safe.Password = ""

	return AuthOutput{User: safe, Token: token}, nil
}

// AdminLogin は設定済みの管理者email/passwordと突き合わせて
// {email} tokenを返す。管理者の行はDBに存在しない。
func (u *AuthUsecase) AdminLogin(ctx context.Context, email string, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewHTTPError(http.StatusBadRequest, "Email and Password required")
	}

	if email != u.adminEmail || password != u.adminPassword {
		return "", NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := u.issuer.IssueAdmin(email)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return token, nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

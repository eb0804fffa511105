package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey     = "user_id"     // int64
	CtxAdminEmailKey = "admin_email" // string
)

// AuthUser はbearerトークンを検証してuser idをcontextへ入れる。
// セッションストアは無く、毎リクエスト独立に検証する。
func AuthUser(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := parseBearer(c, cfg.JWTSecret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, failJSON("Not Authorized. Login Again"))
			}

			//user tokenは id claim を持つ
			userID, err := parseUserID(claims["id"])
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, failJSON("Invalid token: No user ID"))
			}

			c.Set(CtxUserIDKey, userID)
			return next(c)
		}
	}
}

// AuthAdmin はbearerトークンのemail claimが設定済み管理者emailと
// 一致する場合だけ通す。token不正は401、email不一致は403。
func AuthAdmin(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := parseBearer(c, cfg.JWTSecret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, failJSON("Not Authorized. Login Again"))
			}

			email, _ := claims["email"].(string)
			if email == "" {
				return c.JSON(http.StatusUnauthorized, failJSON("Not Authorized. Login Again"))
			}
			if email != cfg.AdminEmail {
				return c.JSON(http.StatusForbidden, failJSON("Forbidden. Admin Access Only"))
			}

			c.Set(CtxAdminEmailKey, email)
			return next(c)
		}
	}
}

// Authorizationヘッダからtokenを抜いてHS256で検証する。
func parseBearer(c echo.Context, secret string) (jwt.MapClaims, bool) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return nil, false
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return nil, false
	}

	//JWTをパースして検証する（署名と有効期限）
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	return claims, true
}

type failResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func failJSON(msg string) failResponse {
	return failResponse{Success: false, Message: msg}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid id")
	}
}

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Claims 携带已验证身份 {userId, username}，下游组件直接信任，不再回查数据库。
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"name"`
	jwt.RegisteredClaims
}

// Identity 是凭证验证后得到的身份。
type Identity struct {
	UserID   string
	Username string
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// GenerateToken 为用户签发 HS256 访问令牌。
func GenerateToken(user models.User, secret string, ttlMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify 校验凭证并返回身份，凭证无效时返回错误。
func Verify(tokenStr, secret string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
	}
	return nil, errors.New("invalid token")
}

// BearerToken 从 Authorization 头或 token 查询参数提取凭证（WS 握手用后者）。
func BearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return c.Query("token")
}

// Middleware 在每个受保护请求上验证凭证，未认证的请求到不了业务层。
func Middleware(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		ident, err := Verify(token, cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("identity", ident)
		c.Next()
	}
}

// GetIdentity 读取中间件写入的身份，未认证时返回 nil。
func GetIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get("identity"); ok {
		if id, ok2 := v.(*Identity); ok2 {
			return id
		}
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token sai chữ ký, hết hạn hoặc không đúng audience
var ErrInvalidToken = errors.New("token không hợp lệ")

// RoleAdmin role được phép gọi admin API
const RoleAdmin = "admin"

const tokenAudience = "admin-api"

// Claims JWT claims của admin token
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AuthService ký và kiểm tra JWT HS256 cho admin API
type AuthService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewAuthService tạo mới AuthService
func NewAuthService(secret, issuer string, expiry time.Duration) *AuthService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &AuthService{secret: []byte(secret), issuer: issuer, expiry: expiry}
}

// IssueToken ký token cho subject với role
func (s *AuthService) IssueToken(subject, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Audience:  jwt.ClaimStrings{tokenAudience},
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("lỗi ký token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken kiểm tra chữ ký, hạn, issuer và audience
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

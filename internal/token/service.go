// Package token はユーザーIDクレームを持つ署名付きベアラートークンの発行と検証を提供する。
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/taskhub/internal/model"
)

// claims はトークンに埋め込むJWTクレーム。
// 有効期限（exp）は意図的に設定しない。トークンは署名鍵が変わるまで有効であり、
// 失効リストも存在しない。
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service はHMAC-SHA256で署名したステートレストークンを発行・検証する。
type Service struct {
	secret []byte
}

// NewService はServiceを生成する。
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue は指定ユーザーIDのクレームを持つ署名付きトークンを発行する。
func (s *Service) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID must not be empty")
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: userID})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、ユーザーIDクレームを返す。
// 欠落・不正な形式・署名不一致の場合はInvalidTokenErrorを返す。
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", model.NewInvalidTokenError()
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", model.NewInvalidTokenError()
	}

	if parsed.UserID == "" {
		return "", model.NewInvalidTokenError()
	}

	return parsed.UserID, nil
}

// Package auth はサインアップとログインのドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskhub/internal/model"
	"github.com/hitoshi/taskhub/internal/repository"
)

// TokenIssuer は認証成功時のトークン発行インターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // パスワードハッシュのコスト係数
}

// Service は認証に関するビジネスロジックを提供する。
// パスワードはbcryptでハッシュ化し、平文をレスポンスにもログにも出さない。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer, config ServiceConfig) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
		config:   config,
	}
}

// Signup は新規ユーザーを登録し、そのユーザーに紐づくトークンを返す。
// email/passwordが空の場合はValidationError、登録済みemailの場合はDuplicateEmailErrorを返す。
func (s *Service) Signup(ctx context.Context, email, password, ipAddress string) (string, error) {
	if email == "" || password == "" {
		return "", model.NewValidationError("メールアドレスとパスワードは必須です。")
	}

	// 事前チェック。同時リクエストとの競合はリポジトリのunique制約が検出する。
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return "", model.NewDuplicateEmailError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		IPAddress:    ipAddress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	slog.Info("user registered", slog.String("user_id", user.ID))

	tok, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return tok, nil
}

// Login は登録済みユーザーを認証し、トークンを返す。
// メールアドレス不在とパスワード不一致のどちらでも同一のInvalidCredentialsErrorを返し、
// アカウントの存在有無を応答から判別できないようにする。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", model.NewValidationError("メールアドレスとパスワードは必須です。")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	tok, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return tok, nil
}

package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskhub/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

type mockIssuer struct {
	issueFn func(userID string) (string, error)
}

func (m *mockIssuer) Issue(userID string) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(userID)
	}
	return "token-for-" + userID, nil
}

// テストを高速に保つため最小コストを使う
var testConfig = ServiceConfig{BcryptCost: bcrypt.MinCost}

// --- Signup ---

// サインアップ成功時にユーザーが保存され、トークンが返ることを検証
func TestService_Signup_Success(t *testing.T) {
	var saved *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	tok, err := svc.Signup(context.Background(), "a@x.com", "p1", "192.0.2.1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}
	if saved == nil {
		t.Fatal("user should be persisted")
	}
	if saved.ID == "" {
		t.Error("user ID should be generated")
	}
	if saved.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", saved.Email, "a@x.com")
	}
	if saved.IPAddress != "192.0.2.1" {
		t.Errorf("IPAddress = %q, want %q", saved.IPAddress, "192.0.2.1")
	}
	if saved.PasswordHash == "" || saved.PasswordHash == "p1" {
		t.Error("password must be stored as a hash, never plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("p1")); err != nil {
		t.Errorf("stored hash should match original password: %v", err)
	}
}

// email/password欠落時にValidationErrorになることを検証
func TestService_Signup_MissingFields(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIssuer{}, testConfig)

	cases := []struct{ email, password string }{
		{"", "p1"},
		{"a@x.com", ""},
		{"", ""},
	}
	for _, c := range cases {
		_, err := svc.Signup(context.Background(), c.email, c.password, "")
		assertAPIErrorCode(t, err, model.ErrCodeValidation)
	}
}

// 登録済みemailでのサインアップがDuplicateEmailErrorになることを検証
func TestService_Signup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	// パスワードに関係なく常に失敗する
	for _, password := range []string{"p1", "another-password"} {
		_, err := svc.Signup(context.Background(), "a@x.com", password, "")
		assertAPIErrorCode(t, err, model.ErrCodeDuplicateEmail)
	}
}

// 事前チェックをすり抜けた競合がリポジトリのエラーで報告されることを検証
func TestService_Signup_RaceBackstop(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.NewDuplicateEmailError()
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	_, err := svc.Signup(context.Background(), "a@x.com", "p1", "")
	assertAPIErrorCode(t, err, model.ErrCodeDuplicateEmail)
}

// --- Login ---

// hashPassword はテスト用にbcryptハッシュを生成する。
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("ハッシュ生成に失敗: %v", err)
	}
	return string(hash)
}

// 正しい資格情報でログインが成功しトークンが返ることを検証
func TestService_Login_Success(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: hashPassword(t, "p1"),
			}, nil
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	tok, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok != "token-for-user-1" {
		t.Errorf("token = %q, want %q", tok, "token-for-user-1")
	}
}

// 未登録emailと誤パスワードで同一形状のエラーが返ることを検証
func TestService_Login_InvalidCredentials_Uniform(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "known@x.com" {
				return &model.User{
					ID:           "user-1",
					Email:        email,
					PasswordHash: hashPassword(t, "correct"),
				}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	_, errUnknown := svc.Login(context.Background(), "unknown@x.com", "whatever")
	_, errWrongPw := svc.Login(context.Background(), "known@x.com", "wrong")

	assertAPIErrorCode(t, errUnknown, model.ErrCodeInvalidCredentials)
	assertAPIErrorCode(t, errWrongPw, model.ErrCodeInvalidCredentials)

	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("unknown email and wrong password must produce identical errors")
	}
}

// email/password欠落時にValidationErrorになることを検証
func TestService_Login_MissingFields(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIssuer{}, testConfig)

	_, err := svc.Login(context.Background(), "", "p1")
	assertAPIErrorCode(t, err, model.ErrCodeValidation)

	_, err = svc.Login(context.Background(), "a@x.com", "")
	assertAPIErrorCode(t, err, model.ErrCodeValidation)
}

// リポジトリ障害が内部エラーとしてラップされることを検証
func TestService_Login_RepoError(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo, &mockIssuer{}, testConfig)

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("repo failure should not map to an APIError, got %v", apiErr)
	}
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %q, want %q", apiErr.Code, code)
	}
}

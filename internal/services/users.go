package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bukukas/internal/auth"
	"bukukas/internal/core"
	"bukukas/internal/storage"
)

// UserService handles registration, login and token-to-user resolution.
type UserService struct {
	store     *storage.Repository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(store *storage.Repository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	CompanyName string
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", core.ErrInvalidName)
	}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", core.ErrInvalidName)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", core.ErrInvalidName)
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", core.ErrInvalidName)
	}
	return nil
}

// Register creates the user and seeds the default chart of accounts in one
// storage transaction. A taken username or email yields core.ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	exists, err := s.store.UserExists(ctx, in.Username, in.Email)
	if err != nil {
		return "", fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return "", core.ErrConflict
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	user := core.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CompanyName:  in.CompanyName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user, defaultAccounts(user.ID)); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered",
		"user_id", user.ID, "username", user.Username, "company", user.CompanyName)
	return user.ID, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, core.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		// Unknown user and wrong password look the same to the caller.
		return "", core.User{}, core.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return "", core.User{}, err
	}

	token, err := auth.NewToken(user.Username, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", core.User{}, err
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID, "username", user.Username)
	return token, user, nil
}

// Resolve maps a verified token back to the stored user.
func (s *UserService) Resolve(ctx context.Context, token string) (core.User, error) {
	username, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return core.User{}, err
	}
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return core.User{}, auth.ErrInvalidToken
	}
	return user, nil
}

// defaultAccounts is the chart of accounts every new user starts with.
func defaultAccounts(userID string) []core.Account {
	seed := []struct {
		name     string
		code     string
		category core.Category
	}{
		{"Cash", "1001", core.Asset},
		{"Bank", "1002", core.Asset},
		{"Payables", "2001", core.Liability},
		{"Personal Capital", "3001", core.Equity},
		{"Sales", "4001", core.Revenue},
		{"Operating Expense", "5001", core.Expense},
	}

	now := time.Now().UTC()
	accounts := make([]core.Account, len(seed))
	for i, d := range seed {
		accounts[i] = core.Account{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      d.name,
			Code:      d.code,
			Category:  d.category,
			Balance:   decimal.Zero,
			CreatedAt: now,
		}
	}
	return accounts
}

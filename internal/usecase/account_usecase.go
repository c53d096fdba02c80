// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quill/internal/domain/entity"
)

// --- Input DTOs ---

// SendCodeInput defines the data required to request a verification code.
type SendCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeInput defines the data required to confirm a verification code.
type VerifyCodeInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// SignupInput defines the data required to create an account. The email must
// hold a live verified flag from the code workflow.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=20"`
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AccountView is the public shape of an account, shared by signup, login,
// current-account, and admin lookup responses.
type AccountView struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuthOutput returns the session token alongside the account it belongs to.
// The delivery layer decides how to hand the token to the client.
type AuthOutput struct {
	Token   string
	Account *AccountView
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// SendVerificationCode issues a fresh code for the email and requests
	// out-of-band delivery. Re-requesting replaces the previous code.
	SendVerificationCode(ctx context.Context, input *SendCodeInput) error

	// VerifyCode promotes a pending code to a verified flag. A mismatched,
	// expired, or absent code yields ErrCodeMismatch.
	VerifyCode(ctx context.Context, input *VerifyCodeInput) error

	// Signup creates a credential for a verified email, consumes the verified
	// flag, requests profile provisioning, and opens a session.
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)

	// Login checks the password and opens a session.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// CurrentAccount returns the account behind an authenticated session.
	CurrentAccount(ctx context.Context, identityID uuid.UUID) (*AccountView, error)

	// LookupAccount returns any account by id. Admin only; enforced at the
	// delivery layer.
	LookupAccount(ctx context.Context, identityID uuid.UUID) (*AccountView, error)

	// UsernameAvailable reports whether the username is free to register.
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// NicknameAvailable reports whether the nickname is free to register.
	NicknameAvailable(ctx context.Context, nickname string) (bool, error)
}

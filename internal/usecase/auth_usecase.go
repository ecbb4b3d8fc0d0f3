// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"estate/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new customer account.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

// SigninInput defines the data required for a user to log in.
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenInput carries the refresh token being exchanged.
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// VerifyEmailInput carries the single-use email-verification token.
type VerifyEmailInput struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordInput carries the address requesting a reset.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput carries the single-use reset token and the new password.
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
type SignupOutput struct {
	User *entity.User `json:"user"`
}

// SigninOutput returns the generated tokens after a successful login.
type SigninOutput struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *entity.User `json:"user"`
}

// RefreshTokenOutput returns the newly issued access token.
type RefreshTokenOutput struct {
	AccessToken string `json:"accessToken"`
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Signup registers a new customer account and sends the verification
	// mail. A mail failure is logged but never fails the signup.
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// Signin checks credentials, stamps the last login, and issues tokens.
	Signin(ctx context.Context, input *SigninInput) (*SigninOutput, error)

	// RefreshToken exchanges a valid refresh token for a new access token.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// VerifyEmail consumes a verification token. Tokens are single-use.
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) error

	// ForgotPassword issues a reset token and mails it. It reports success
	// even for unknown addresses to avoid account enumeration.
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error

	// ResetPassword consumes a reset token and replaces the password hash.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}

// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo      repository.UserRepository
	dashboardRepo repository.DashboardRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	mailer        service.Mailer
	cfg           *config.Config
	logger        *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	userRepo repository.UserRepository,
	dashboardRepo repository.DashboardRepository,
	hasher service.PasswordHasher,
	tokenService service.TokenService,
	mailer service.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		userRepo:      userRepo,
		dashboardRepo: dashboardRepo,
		hasher:        hasher,
		tokenService:  tokenService,
		mailer:        mailer,
		cfg:           cfg,
		logger:        logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new customer account and sends the verification mail.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Info("Registering new account", "email", input.Email)

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	now := time.Now()
	user := &entity.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		Name:         input.Name,
		Phone:        input.Phone,
		CustomerProfile: &entity.CustomerProfile{
			Available: true,
		},
		EmailVerification: &entity.SecurityToken{
			Token:     uuid.NewString(),
			ExpiresAt: now.Add(srv.cfg.Auth.VerificationTTL),
		},
		IsActive: true,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	// Mail delivery never fails the signup; the token can be re-requested.
	mail := service.Mail{
		To:       user.Email,
		Subject:  "Verify your email address",
		Template: "verify_email",
		Data: map[string]any{
			"Name":  user.Name,
			"Token": user.EmailVerification.Token,
		},
	}
	if err := srv.mailer.Send(ctx, mail); err != nil {
		srv.log(ctx).Warn("Failed to send verification mail", "email", user.Email, "error", err)
	}

	srv.recordActivity(ctx, entity.Activity{
		Kind:       "user_signup",
		Message:    user.Name + " joined the platform",
		ActorID:    user.ID,
		OccurredAt: now,
	})

	return &usecase.SignupOutput{User: user}, nil
}

// Signin checks credentials, stamps the last login, and issues tokens.
func (srv *authService) Signin(ctx context.Context, input *usecase.SigninInput) (*usecase.SigninOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrUserInactive, "account is deactivated")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	now := time.Now()
	if err := srv.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		// Losing a login stamp is not worth failing the login.
		srv.log(ctx).Warn("Failed to record login time", "userID", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	srv.log(ctx).Info("User signed in", "userID", user.ID, "role", user.Role)

	return &usecase.SigninOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, err.Error())
	}

	// Deactivation revokes outstanding refresh tokens.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}
	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrUserInactive, "account is deactivated")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// VerifyEmail consumes a verification token. Tokens are single-use: the token
// is cleared on success, so replaying it fails.
func (srv *authService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) error {
	user, err := srv.userRepo.FindByVerificationToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "token not found")
		}

		return errors.Wrap(err, "failed to find user by verification token")
	}

	if user.EmailVerification == nil || user.EmailVerification.Expired(time.Now()) {
		return errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "token expired")
	}

	user.EmailVerified = true
	user.EmailVerification = nil
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to mark email verified")
	}

	srv.log(ctx).Info("Email verified", "userID", user.ID)

	return nil
}

// ForgotPassword issues a reset token and mails it. Unknown addresses report
// success so the endpoint cannot be used to enumerate accounts.
func (srv *authService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) error {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Password reset requested for unknown email", "email", input.Email)

			return nil
		}

		return errors.Wrap(err, "failed to find user")
	}

	user.PasswordReset = &entity.SecurityToken{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(srv.cfg.Auth.ResetTTL),
	}
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	mail := service.Mail{
		To:       user.Email,
		Subject:  "Reset your password",
		Template: "reset_password",
		Data: map[string]any{
			"Name":  user.Name,
			"Token": user.PasswordReset.Token,
		},
	}
	if err := srv.mailer.Send(ctx, mail); err != nil {
		srv.log(ctx).Warn("Failed to send reset mail", "email", user.Email, "error", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	user, err := srv.userRepo.FindByResetToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrResetTokenInvalid, "token not found")
		}

		return errors.Wrap(err, "failed to find user by reset token")
	}

	if user.PasswordReset == nil || user.PasswordReset.Expired(time.Now()) {
		return errors.Wrap(domainerrors.ErrResetTokenInvalid, "token expired")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	user.PasswordHash = hash
	user.PasswordReset = nil
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store new password")
	}

	srv.log(ctx).Info("Password reset completed", "userID", user.ID)

	return nil
}

// recordActivity appends to the analytics dashboard's bounded activity log.
// Failures are logged and swallowed; the log is decorative.
func (srv *authService) recordActivity(ctx context.Context, activity entity.Activity) {
	limit := srv.cfg.Dashboard.RecentActivityLimit
	if err := srv.dashboardRepo.AppendActivity(ctx, entity.DashboardAnalytics, activity, limit); err != nil {
		srv.log(ctx).Warn("Failed to record dashboard activity", "kind", activity.Kind, "error", err)
	}
}

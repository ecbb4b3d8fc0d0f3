package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/usecase"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo      repository.UserRepository
	dashboardRepo repository.DashboardRepository
	hasher        service.PasswordHasher
	mailer        service.Mailer
	cfg           *config.Config
	logger        *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	userRepo repository.UserRepository,
	dashboardRepo repository.DashboardRepository,
	hasher service.PasswordHasher,
	mailer service.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		userRepo:      userRepo,
		dashboardRepo: dashboardRepo,
		hasher:        hasher,
		mailer:        mailer,
		cfg:           cfg,
		logger:        logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns users matching the filter. Admin only.
func (srv *userService) ListUsers(ctx context.Context, requester usecase.Requester, input *usecase.ListUsersInput) ([]*entity.User, error) {
	if requester.Role != entity.RoleAdmin {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "listing accounts requires admin")
	}

	filter := repository.UserListFilter{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if input.Role != "" {
		role := entity.Role(input.Role)
		if !role.Valid() {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown role %q", input.Role)
		}
		filter.Role = role
	}

	users, err := srv.userRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// GetUser returns a single account. Self-service or admin.
func (srv *userService) GetUser(ctx context.Context, requester usecase.Requester, id bson.ObjectID) (*entity.User, error) {
	if err := srv.authorizeAccountAccess(requester, id); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// UpdateUser edits profile fields. Self-service or admin. Nil input fields
// are left unchanged.
func (srv *userService) UpdateUser(ctx context.Context, requester usecase.Requester, id bson.ObjectID, input *usecase.UpdateUserInput) (*entity.User, error) {
	if err := srv.authorizeAccountAccess(requester, id); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}

	srv.log(ctx).Info("User profile updated", "userID", user.ID)

	return user, nil
}

// DeactivateUser soft-deletes an account. Admin only.
func (srv *userService) DeactivateUser(ctx context.Context, requester usecase.Requester, id bson.ObjectID) error {
	if requester.Role != entity.RoleAdmin {
		return errors.Wrap(domainerrors.ErrForbidden, "deactivating accounts requires admin")
	}

	if err := srv.userRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return errors.Wrap(err, "failed to deactivate user")
	}

	srv.log(ctx).Info("User deactivated", "userID", id, "by", requester.UserID)

	return nil
}

// CreateAgent creates an agent account with the next sequential agent
// identifier. Admin only. The identifier comes from an atomic counter, so two
// concurrent creations can never share one.
func (srv *userService) CreateAgent(ctx context.Context, requester usecase.Requester, input *usecase.CreateAgentInput) (*entity.User, error) {
	if requester.Role != entity.RoleAdmin {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "creating agents requires admin")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	sequence, err := srv.userRepo.NextAgentSequence(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate agent sequence")
	}

	agent := &entity.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         entity.RoleAgent,
		Name:         input.Name,
		Phone:        input.Phone,
		AgentProfile: &entity.AgentProfile{
			AgentID:         fmt.Sprintf("AG%04d", sequence),
			Specializations: input.Specializations,
			ExperienceYears: input.ExperienceYears,
			Commission:      input.Commission,
		},
		EmailVerified: true, // Admin-created accounts skip verification.
		IsActive:      true,
	}

	if err := srv.userRepo.Create(ctx, agent); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// The allocated sequence number is burned. Gaps are fine; the
			// identifier only has to be unique, not dense.
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}

		return nil, errors.Wrap(err, "failed to create agent")
	}

	mail := service.Mail{
		To:       agent.Email,
		Subject:  "Welcome to the team",
		Template: "agent_welcome",
		Data: map[string]any{
			"Name":    agent.Name,
			"AgentID": agent.AgentProfile.AgentID,
		},
	}
	if err := srv.mailer.Send(ctx, mail); err != nil {
		srv.log(ctx).Warn("Failed to send agent welcome mail", "email", agent.Email, "error", err)
	}

	activity := entity.Activity{
		Kind:       "agent_created",
		Message:    agent.Name + " (" + agent.AgentProfile.AgentID + ") joined as agent",
		ActorID:    requester.UserID,
		OccurredAt: time.Now(),
	}
	if err := srv.dashboardRepo.AppendActivity(ctx, entity.DashboardAnalytics, activity, srv.cfg.Dashboard.RecentActivityLimit); err != nil {
		srv.log(ctx).Warn("Failed to record dashboard activity", "kind", activity.Kind, "error", err)
	}

	srv.log(ctx).Info("Agent created", "agentID", agent.AgentProfile.AgentID, "userID", agent.ID)

	return agent, nil
}

// authorizeAccountAccess allows admins and the account owner through.
func (srv *userService) authorizeAccountAccess(requester usecase.Requester, id bson.ObjectID) error {
	if requester.Role == entity.RoleAdmin || requester.UserID == id {
		return nil
	}

	return errors.Wrap(domainerrors.ErrForbidden, "account access denied")
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/identity"
	"github.com/yungbote/talentgrid-backend/internal/platform/apierr"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type ProvisionUserInput struct {
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	ExternalSubject string   `json:"external_subject"`
	Roles           []string `json:"roles"`
}

type UserService interface {
	// Provision registers a user from the identity provider into the caller's
	// tenant. Role changes go through Provision again; the principal cache
	// entry for the subject is invalidated by the app layer afterwards.
	Provision(ctx context.Context, input ProvisionUserInput) (*types.User, error)
	Me(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	authSvc  AuthService
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, authSvc AuthService) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
		authSvc:  authSvc,
	}
}

func (s *userService) Provision(ctx context.Context, input ProvisionUserInput) (*types.User, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(types.RoleHR, types.RoleAdmin) {
		return nil, apierr.Forbidden("HR role required to provision users")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.Validation("a valid email is required")
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, apierr.Validation("first and last name are required")
	}
	roles := make([]identity.Role, 0, len(input.Roles))
	for _, raw := range input.Roles {
		r := identity.Role(strings.ToLower(strings.TrimSpace(raw)))
		if !identity.ValidRole(r) {
			return nil, apierr.Validation("unknown role %q", raw)
		}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		roles = []identity.Role{types.RoleEmployee}
	}

	user := &types.User{
		ID:              uuid.New(),
		TenantID:        p.TenantID,
		Email:           email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ExternalSubject: input.ExternalSubject,
		Roles:           identity.JoinRoles(roles),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		_, cErr := s.userRepo.Create(txc, []*types.User{user})
		return cErr
	})
	if err != nil {
		return nil, err
	}
	if input.ExternalSubject != "" {
		if iErr := s.authSvc.InvalidatePrincipal(ctx, input.ExternalSubject); iErr != nil {
			s.log.Warn("principal cache invalidation failed", "error", iErr)
		}
	}
	s.log.Info("user provisioned", "user_id", user.ID, "roles", user.Roles)
	return user, nil
}

func (s *userService) Me(ctx context.Context) (*types.User, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user", p.UserID.String())
	}
	return user, nil
}

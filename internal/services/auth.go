package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/talentgrid-backend/internal/clients/redis"
	"github.com/yungbote/talentgrid-backend/internal/data/repos"
	"github.com/yungbote/talentgrid-backend/internal/platform/dbctx"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
)

type AuthService interface {
	// SetContextFromToken verifies the bearer token and attaches the resolved
	// principal to the returned context. Unauthenticated requests pass through
	// with ctx unchanged; authz is the handlers' concern.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(subject string, ttl time.Duration) (string, error)
	InvalidatePrincipal(ctx context.Context, subject string) error
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	cache        redisclient.PrincipalCache
	jwtSecretKey string
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	cache redisclient.PrincipalCache,
	jwtSecretKey string,
) AuthService {
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		userRepo:     userRepo,
		cache:        cache,
		jwtSecretKey: jwtSecretKey,
	}
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return ctx, fmt.Errorf("invalid or expired token")
	}

	principal, err := s.resolvePrincipal(ctx, claims.Subject)
	if err != nil {
		return ctx, err
	}
	return requestdata.WithPrincipal(ctx, principal), nil
}

func (s *authService) resolvePrincipal(ctx context.Context, subject string) (*requestdata.Principal, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, subject); err != nil {
			s.log.Warn("principal cache read failed", "error", err)
		} else if p != nil {
			return p, nil
		}
	}

	user, err := s.userRepo.GetByExternalSubject(dbctx.Context{Ctx: ctx}, subject)
	if err != nil {
		return nil, fmt.Errorf("load user by subject: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("no user for token subject")
	}
	principal := &requestdata.Principal{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Subject:  subject,
		Roles:    user.RoleSet(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, subject, principal); err != nil {
			s.log.Warn("principal cache write failed", "error", err)
		}
	}
	return principal, nil
}

// IssueToken mints an HS256 access token. Used by seed tooling and tests;
// production deployments normally take tokens from the identity provider.
func (s *authService) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}

func (s *authService) InvalidatePrincipal(ctx context.Context, subject string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, subject)
}

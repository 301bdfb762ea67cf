package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/approval-desk/internal/auth"
	"github.com/spec-kit/approval-desk/internal/config"
	"github.com/spec-kit/approval-desk/internal/domain"
	"github.com/spec-kit/approval-desk/internal/events"
	"github.com/spec-kit/approval-desk/internal/repository"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

// ProfileService is the identity/role resolver: it turns an authenticated
// principal into a UserProfile and owns login/registration flows.
type ProfileService struct {
	profiles   repository.ProfileRepository
	companies  repository.CompanyRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// ProfileDependencies bundles collaborators for the profile service.
type ProfileDependencies struct {
	ProfileRepo repository.ProfileRepository
	CompanyRepo repository.CompanyRepository
	Dispatcher  events.Dispatcher
}

// NewProfileService builds the service.
func NewProfileService(cfg config.Config, deps ProfileDependencies) *ProfileService {
	return &ProfileService{
		profiles:   deps.ProfileRepo,
		companies:  deps.CompanyRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *ProfileService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a profile with the default user role.
func (s *ProfileService) Register(ctx context.Context, name, email, password, companyID string) (*domain.UserProfile, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password required", nil)
	}
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.NewRemoteError(err)
	}
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, "", time.Time{}, mapRepoErr(err, "company")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	profile := &domain.UserProfile{
		UID:          uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		CompanyID:    companyID,
		Enabled:      true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", time.Time{}, apperrors.NewRemoteError(err)
	}
	return s.issueSession(ctx, profile)
}

// Login authenticates a principal and refreshes the profile, per the
// created/refreshed-on-authentication lifecycle.
func (s *ProfileService) Login(ctx context.Context, email, password string) (*domain.UserProfile, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewRemoteError(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !profile.Enabled {
		return nil, "", time.Time{}, apperrors.NewAccountDisabled()
	}
	if err := s.profiles.TouchLogin(ctx, profile.UID, profile.Name, profile.Email); err != nil {
		return nil, "", time.Time{}, apperrors.NewRemoteError(err)
	}
	return s.issueSession(ctx, profile)
}

// Resolve loads the profile for an authenticated uid. A disabled profile
// blocks everything except sign-out.
func (s *ProfileService) Resolve(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("unknown principal")
		}
		return nil, apperrors.NewRemoteError(err)
	}
	if !profile.Enabled {
		return nil, apperrors.NewAccountDisabled()
	}
	return profile, nil
}

// SetEnabled flips a profile's enabled flag (admin operation).
func (s *ProfileService) SetEnabled(ctx context.Context, uid string, enabled bool) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, mapRepoErr(err, "profile")
	}
	profile.Enabled = enabled
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, mapRepoErr(err, "profile")
	}
	return profile, nil
}

// AssignRole changes a profile's role (admin operation).
func (s *ProfileService) AssignRole(ctx context.Context, uid, role string) (*domain.UserProfile, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return nil, apperrors.NewValidationError("role required", nil)
	}
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, mapRepoErr(err, "profile")
	}
	profile.Role = role
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, mapRepoErr(err, "profile")
	}
	return profile, nil
}

// ListProfiles returns profiles in a company (admin operation).
func (s *ProfileService) ListProfiles(ctx context.Context, companyID string) ([]domain.UserProfile, error) {
	profiles, err := s.profiles.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewRemoteError(err)
	}
	return profiles, nil
}

func (s *ProfileService) issueSession(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(profile.UID, profile.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPrincipalSignedIn,
			Actor:     events.Actor{UID: profile.UID, Name: profile.Name, Role: profile.Role},
			Timestamp: time.Now(),
			Payload: events.PrincipalSignedInPayload{
				Email:     profile.Email,
				Role:      profile.Role,
				CompanyID: profile.CompanyID,
			},
		})
	}
	return profile, token, exp, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/spec-kit/school-service/internal/auth"
	"github.com/spec-kit/school-service/internal/cache"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/repository"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// AuthService coordinates registration, login and admin provisioning.
type AuthService struct {
	users      repository.UserRepository
	schools    cache.SchoolLookup
	tokens     *auth.TokenCodec
	passwords  *auth.PasswordHasher
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Users      repository.UserRepository
	Schools    cache.SchoolLookup
	Tokens     *auth.TokenCodec
	BcryptCost int
	Dispatcher events.Dispatcher
}

// AuthResult is a freshly issued token with the account it belongs to.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.Users,
		schools:    deps.Schools,
		tokens:     deps.Tokens,
		passwords:  auth.NewPasswordHasher(deps.BcryptCost),
		dispatcher: deps.Dispatcher,
	}
}

// NormalizeEmail trims and case-folds an address before storage or lookup.
func NormalizeEmail(email string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(email))
}

// RegisterSuperadmin creates the single superadmin account.
func (s *AuthService) RegisterSuperadmin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	exists, err := s.users.ExistsByRole(ctx, domain.RoleSuperadmin)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, errSuperadminExists
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, email, password, domain.RoleSuperadmin, nil)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventSuperadminRegistered, "", user.ID,
		events.UserCreatedPayload{UserID: user.ID, Email: user.Email}))

	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		s.passwords.Matches("", password)
		return nil, errInvalidCredentials
	}
	if !s.passwords.Matches(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return s.issue(user)
}

// CreateSchoolAdmin provisions an admin bound to schoolID.
func (s *AuthService) CreateSchoolAdmin(ctx context.Context, actor domain.Principal, schoolID, email, password string) (*domain.User, error) {
	exists, err := s.schools.Exists(ctx, schoolID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFound("School")
	}

	email = NormalizeEmail(email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, email, password, domain.RoleSchoolAdmin, &schoolID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventSchoolAdminCreated, schoolID, actor.UserID(),
		events.UserCreatedPayload{UserID: user.ID, Email: user.Email}))
	return user, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return errEmailExists
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return apperrors.NewInternalError(err)
	}
}

func (s *AuthService) createUser(ctx context.Context, email, password string, role domain.Role, schoolID *string) (*domain.User, error) {
	hash, err := s.passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError("Invalid input",
			apperrors.FieldError{Field: "password", Message: "password must be at most 72 bytes"})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		SchoolID:     schoolID,
	}
	// The store re-checks uniqueness; this covers concurrent registrations.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(err, "School")
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	var schoolID string
	if user.SchoolID != nil {
		schoolID = *user.SchoolID
	}
	token, exp, err := s.tokens.Issue(auth.PrincipalClaims{UserID: user.ID, Role: user.Role, SchoolID: schoolID})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitalagenda/vital-api/internal/email"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
	"github.com/vitalagenda/vital-api/pkg/security"
	"github.com/vitalagenda/vital-api/pkg/token"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute

	// Quick-provisioned doctors get a default birth date; the account
	// holder fills in real details on first login.
	defaultDoctorBirthDate = "1970-01-01"
)

type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	tokenSvc token.Service
	emailSvc email.Service
	expiry   time.Duration
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, tokenSvc token.Service, emailSvc email.Service, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = 2 * time.Hour
	}
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
		emailSvc: emailSvc,
		expiry:   expiry,
	}
}

// Register creates a patient account. Self-registration never yields a
// doctor role.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	birthDate, err := time.ParseInLocation("2006-01-02", req.BirthDate, time.UTC)
	if err != nil {
		return nil, apperror.Validation("birth date must be a valid YYYY-MM-DD date")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.ValidationWrap("invalid password", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		BirthDate:    birthDate,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         model.RolePatient,
		SpecialtyID:  req.SpecialtyID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("email or phone already registered")
		}
		return nil, apperror.Internal(err)
	}

	// Best effort; registration succeeds even when the mail does not go out.
	_ = s.emailSvc.SendWelcome(ctx, user.Email, user.FullName())

	return user, nil
}

// RegisterDoctor provisions a doctor account with generic defaults and
// returns the generated temporary password alongside the user.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) (*model.User, string, error) {
	birthDate, _ := time.ParseInLocation("2006-01-02", defaultDoctorBirthDate, time.UTC)
	tempPassword := uuid.New().String()[:12]

	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		BirthDate:    birthDate,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         model.RoleDoctor,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperror.Conflict("email or phone already registered")
		}
		return nil, "", apperror.Internal(err)
	}
	return user, tempPassword, nil
}

// Login verifies credentials and issues a bearer token carrying the
// subject id and role. Accounts lock for a while after repeated
// failures.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Auth("invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if s.locked(user) {
		return nil, apperror.Auth("account is locked, please try again later")
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		now := time.Now()
		user.FailedLoginAttempts++
		user.LastLoginAttempt = &now
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			return nil, apperror.Internal(updateErr)
		}
		return nil, apperror.Auth("invalid credentials")
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LastLoginAttempt = nil
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	accessToken, err := s.tokenSvc.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.expiry),
		User:        user,
	}, nil
}

// VerifyToken validates a bearer token and re-checks the role against
// the named enum before trusting it.
func (s *Service) VerifyToken(tokenStr string) (uuid.UUID, model.Role, error) {
	claims, err := s.tokenSvc.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return uuid.Nil, "", apperror.Auth("token expired")
		}
		return uuid.Nil, "", apperror.Auth("invalid token")
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		return uuid.Nil, "", apperror.Auth("invalid token role")
	}
	return claims.UserID, role, nil
}

func (s *Service) locked(user *model.User) bool {
	if user.FailedLoginAttempts < maxLoginAttempts || user.LastLoginAttempt == nil {
		return false
	}
	return time.Since(*user.LastLoginAttempt) < lockoutDuration
}

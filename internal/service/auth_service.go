package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dom/diary-service/internal/auth"
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo    repository.UserRepository
	revocations auth.RevocationStore
	codec       *auth.TokenCodec
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, revocations auth.RevocationStore, codec *auth.TokenCodec) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revocations: revocations,
		codec:       codec,
		now:         time.Now,
	}
}

type SignupInput struct {
	Email       string
	Password    string
	Nickname    string
	Name        string
	PhoneNumber string
}

func (in SignupInput) validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil || strings.ContainsAny(in.Email, "<> ") {
		return domain.ErrInvalidEmail
	}
	if in.Password == "" {
		return domain.ErrPasswordRequired
	}
	if strings.TrimSpace(in.Nickname) == "" {
		return domain.RequiredField("nickname")
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.RequiredField("name")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return domain.RequiredField("phone_number")
	}
	return nil
}

// TokenPair is the result of a login or refresh. The refresh token travels
// separately from the access token, with RefreshTTL as its lifetime.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		Nickname:     input.Nickname,
		Name:         input.Name,
		PhoneNumber:  input.PhoneNumber,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.Warn("failed to record last login", logger.Fields{"user_id": user.ID.String(), "error": err})
	}

	return s.issuePair(user.Email)
}

// Logout revokes the presented access token. Tokens that do not verify can
// never authenticate, so they are not recorded. Logging out twice is not an
// error.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	payload, ok := s.codec.Decode(accessToken)
	if !ok {
		return nil
	}
	return s.revocations.Revoke(ctx, accessToken, payload.ExpiresAt)
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	payload, ok := s.codec.Decode(refreshToken)
	if !ok || payload.Type != auth.TokenTypeRefresh {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userBySubject(ctx, payload.Subject)
	if err != nil {
		return nil, err
	}

	return s.issuePair(user.Email)
}

// ResolveCurrentUser maps a bearer access token to its user.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	payload, ok := s.codec.Decode(accessToken)
	if !ok || payload.Subject == "" || payload.Type != auth.TokenTypeAccess {
		return nil, domain.ErrInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return s.userBySubject(ctx, payload.Subject)
}

// userBySubject loads the user a token was issued to. The subject is the
// account email, which is unique and never changes.
func (s *AuthService) userBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.userRepo.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies only the fields present in patch.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	for field, value := range map[string]*string{
		"nickname":     patch.Nickname,
		"name":         patch.Name,
		"phone_number": patch.PhoneNumber,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return nil, domain.RequiredField(field)
		}
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !patch.Apply(user) {
		return user, nil
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user. Their diaries, keywords, tag links,
// alerts and statistics go with them.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *AuthService) issuePair(subject string) (*TokenPair, error) {
	accessToken, err := s.codec.Issue(subject, auth.TokenTypeAccess, 0)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(subject, auth.TokenTypeRefresh, 0)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshTTL:   s.codec.TTL(auth.TokenTypeRefresh),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	errors "github.com/constituency-office/citizen-portal/internal"
)

// Registration carries the identity plus profile metadata created together
// at sign-up. The role row defaults to citizen.
type Registration struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	NationalID   *string
	AreaID       *int64
}

type RepositoryAPI interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	GetUserWithRole(userID int64) (*User, error)
	EmailExists(email string) (bool, error)
	RegisterIdentity(reg *Registration) (int64, error)
	GetOrCreateGoogleIdentity(googleID, email, name string) (int64, error)
	GetUserIDByEmail(email string) (int64, error)
	CreatePasswordReset(userID int64, tokenHash string, expiresAt time.Time) error
	ConsumePasswordReset(tokenHash string, now time.Time) (int64, error)
	UpdatePassword(userID int64, passwordHash string) error
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	Register(dto SignUpDTO) error
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithRole(userID int64) (*User, error)
	GoogleAuthURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string) (AuthTokens, error)
	RequestPasswordReset(email string) error
	CompletePasswordReset(dto ResetPasswordDTO) error
}

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	google         *GoogleClient
	bcryptCost     int
	resetTokenTTL  time.Duration
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, google *GoogleClient, bcryptCost int, resetTokenTTL time.Duration, logger *slog.Logger) *Service {
	if resetTokenTTL <= 0 {
		resetTokenTTL = time.Hour
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		google:         google,
		bcryptCost:     bcryptCost,
		resetTokenTTL:  resetTokenTTL,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns a token pair. Every
// failure maps to the same generic error so the response never reveals
// which field was wrong.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.repo.GetPasswordForEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserWithRole(userID)
	if err != nil {
		if err == ErrUserInactive {
			return AuthTokens{}, ErrUserInactive
		}
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Register creates the identity with its profile metadata and the default
// citizen role. Validation failures abort before any repository call.
// Registration does not sign the user in; callers must authenticate
// separately once any verification step completes.
func (s *Service) Register(dto SignUpDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("sign-up: email lookup failed", "error", err)
		return errors.NewInternalError("failed to register", err)
	}
	if exists {
		return errors.NewConflictError("email already in use", errors.ErrCodeEmailAlreadyInUse)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("failed to register", err)
	}

	userID, err := s.repo.RegisterIdentity(&Registration{
		Email:        dto.Email,
		PasswordHash: hash,
		Name:         dto.Name,
		Phone:        dto.Phone,
		NationalID:   dto.NationalID,
		AreaID:       dto.AreaID,
	})
	if err != nil {
		s.logger.Error("sign-up: failed to create identity", "error", err)
		return errors.NewInternalError("failed to register", err)
	}

	s.logger.Info("identity registered", "user_id", userID)
	return nil
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	// Re-read the role so a tier change invalidates stale claims.
	user, err := s.repo.GetUserWithRole(userID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) GetUserWithRole(userID int64) (*User, error) {
	return s.repo.GetUserWithRole(userID)
}

func (s *Service) GoogleAuthURL(state string) string {
	if s.google == nil {
		return ""
	}
	return s.google.AuthURL(state)
}

// HandleGoogleCallback exchanges the authorization code, provisioning the
// identity on first federated login with the default citizen role.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (AuthTokens, error) {
	if s.google == nil {
		return AuthTokens{}, errors.NewInternalError("google sign-in is not configured", nil)
	}

	gu, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("google sign-in: exchange failed", "error", err)
		return AuthTokens{}, ErrInvalidCredentials
	}

	userID, err := s.repo.GetOrCreateGoogleIdentity(gu.Sub, gu.Email, gu.Name)
	if err != nil {
		s.logger.Error("google sign-in: identity provisioning failed", "error", err)
		return AuthTokens{}, errors.NewInternalError("failed to sign in", err)
	}

	user, err := s.repo.GetUserWithRole(userID)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign in", err)
	}

	return s.issueTokens(user)
}

// RequestPasswordReset never reveals whether the email is registered: an
// unknown address is logged and reported as success.
func (s *Service) RequestPasswordReset(email string) error {
	userID, err := s.repo.GetUserIDByEmail(email)
	if err != nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return errors.NewInternalError("failed to create reset token", err)
	}

	if err := s.repo.CreatePasswordReset(userID, hashResetToken(token), time.Now().Add(s.resetTokenTTL)); err != nil {
		return errors.NewInternalError("failed to create reset token", err)
	}

	// Delivery is out of band; the mailer picks the token up from the log
	// sink in development.
	s.logger.Info("password reset token issued", "user_id", userID)
	return nil
}

func (s *Service) CompletePasswordReset(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID, err := s.repo.ConsumePasswordReset(hashResetToken(dto.Token), time.Now())
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("failed to reset password", err)
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		return errors.NewInternalError("failed to reset password", err)
	}

	s.logger.Info("password reset completed", "user_id", userID)
	return nil
}

func (s *Service) issueTokens(user *User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateRandomToken generates a cryptographically secure random token.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

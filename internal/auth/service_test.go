package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/pkg/logger"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	passwords     map[string]string // email -> password hash
	userIDs       map[string]int64  // email -> userID
	usersByID     map[int64]*User
	registrations []*Registration
	resets        map[string]int64 // token hash -> userID
	resetExpiry   map[string]time.Time
	passwordsByID map[int64]string
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	areaID := int64(3)
	return &mockAuthRepository{
		passwords: map[string]string{
			"citizen@example.com": string(hashedPassword),
			"staff@example.com":   string(hashedPassword),
			"admin@example.com":   string(hashedPassword),
		},
		userIDs: map[string]int64{
			"citizen@example.com": 1,
			"staff@example.com":   2,
			"admin@example.com":   3,
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Email: "citizen@example.com", Name: "Citizen", Role: RoleCitizen},
			2: {ID: 2, Email: "staff@example.com", Name: "Staff", Role: RoleStaff, AssignedAreaID: &areaID},
			3: {ID: 3, Email: "admin@example.com", Name: "Admin", Role: RoleAdmin},
		},
		resets:        map[string]int64{},
		resetExpiry:   map[string]time.Time{},
		passwordsByID: map[int64]string{},
	}
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	if m.returnError {
		return "", 0, m.errorToReturn
	}
	if hash, exists := m.passwords[email]; exists {
		return hash, m.userIDs[email], nil
	}
	return "", 0, errors.New("user not found")
}

func (m *mockAuthRepository) GetUserWithRole(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if user, exists := m.usersByID[userID]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockAuthRepository) EmailExists(email string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	_, exists := m.userIDs[email]
	return exists, nil
}

func (m *mockAuthRepository) RegisterIdentity(reg *Registration) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	m.registrations = append(m.registrations, reg)
	id := int64(100 + len(m.registrations))
	m.userIDs[reg.Email] = id
	m.usersByID[id] = &User{ID: id, Email: reg.Email, Name: reg.Name, Role: RoleCitizen}
	return id, nil
}

func (m *mockAuthRepository) GetOrCreateGoogleIdentity(googleID, email, name string) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	if id, exists := m.userIDs[email]; exists {
		return id, nil
	}
	id := int64(200)
	m.userIDs[email] = id
	m.usersByID[id] = &User{ID: id, Email: email, Name: name, Role: RoleCitizen}
	return id, nil
}

func (m *mockAuthRepository) GetUserIDByEmail(email string) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	if id, exists := m.userIDs[email]; exists {
		return id, nil
	}
	return 0, errors.New("user not found")
}

func (m *mockAuthRepository) CreatePasswordReset(userID int64, tokenHash string, expiresAt time.Time) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.resets[tokenHash] = userID
	m.resetExpiry[tokenHash] = expiresAt
	return nil
}

func (m *mockAuthRepository) ConsumePasswordReset(tokenHash string, now time.Time) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	userID, exists := m.resets[tokenHash]
	if !exists || now.After(m.resetExpiry[tokenHash]) {
		return 0, errors.New("reset token not found")
	}
	delete(m.resets, tokenHash)
	return userID, nil
}

func (m *mockAuthRepository) UpdatePassword(userID int64, passwordHash string) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.passwordsByID[userID] = passwordHash
	return nil
}

func (m *mockAuthRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, nil, bcrypt.MinCost, time.Hour, logger.NewTestLogger())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "citizen@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the current role in the access token", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "staff@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := tokenGen.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.Role).To(gomega.Equal(string(RoleStaff)))
				gomega.Expect(claims.UserID).To(gomega.Equal("2"))
			})
		})

		ginkgo.Context("when the password is wrong", func() {
			ginkgo.It("should return the generic credentials error", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "citizen@example.com",
					Password: "wrong_password",
				})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the email is unknown", func() {
			ginkgo.It("should return the same generic credentials error", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when a field is missing", func() {
			ginkgo.It("should fail validation without hitting the repository", func() {
				mockRepo.setError(errors.New("repository must not be called"))

				_, err := service.Authenticate(LoginDTO{Email: "citizen@example.com"})
				gomega.Expect(err).To(gomega.HaveOccurred())

				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create the identity with profile metadata", func() {
			nationalID := "1234567890"
			err := service.Register(SignUpDTO{
				Email:      "new@example.com",
				Password:   "password123",
				Name:       "New Citizen",
				NationalID: &nationalID,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.registrations).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.registrations[0].Email).To(gomega.Equal("new@example.com"))
			gomega.Expect(mockRepo.registrations[0].PasswordHash).ToNot(gomega.Equal("password123"))
		})

		ginkgo.It("should reject a short national id before touching the repository", func() {
			nationalID := "12345"
			err := service.Register(SignUpDTO{
				Email:      "new@example.com",
				Password:   "password123",
				Name:       "New Citizen",
				NationalID: &nationalID,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.registrations).To(gomega.BeEmpty())

			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
		})

		ginkgo.It("should reject a duplicate email", func() {
			err := service.Register(SignUpDTO{
				Email:    "citizen@example.com",
				Password: "password123",
				Name:     "Duplicate",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeEmailAlreadyInUse))
		})

		ginkgo.It("should not return tokens on success", func() {
			// Registration and session establishment are separate steps.
			err := service.Register(SignUpDTO{
				Email:    "another@example.com",
				Password: "password123",
				Name:     "Another",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a fresh pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "citizen@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should pick up a role change made since login", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "citizen@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			mockRepo.usersByID[1].Role = RoleStaff

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := tokenGen.ValidateAccessToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Role).To(gomega.Equal(string(RoleStaff)))
		})

		ginkgo.It("should reject an access token used as refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "citizen@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject garbage", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("Password reset", func() {
		ginkgo.It("should silently accept an unknown email", func() {
			err := service.RequestPasswordReset("nobody@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.resets).To(gomega.BeEmpty())
		})

		ginkgo.It("should store a hashed token for a known email", func() {
			err := service.RequestPasswordReset("citizen@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.resets).To(gomega.HaveLen(1))
		})

		ginkgo.It("should complete the round trip and update the password", func() {
			token, err := GenerateRandomToken()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.CreatePasswordReset(1, hashResetToken(token), time.Now().Add(time.Hour))).To(gomega.Succeed())

			err = service.CompletePasswordReset(ResetPasswordDTO{
				Token:       token,
				NewPassword: "brand-new-password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			newHash := mockRepo.passwordsByID[1]
			gomega.Expect(newHash).ToNot(gomega.BeEmpty())
			gomega.Expect(VerifyPassword(newHash, "brand-new-password")).To(gomega.Succeed())
		})

		ginkgo.It("should reject an expired token", func() {
			token, err := GenerateRandomToken()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.CreatePasswordReset(1, hashResetToken(token), time.Now().Add(-time.Minute))).To(gomega.Succeed())

			err = service.CompletePasswordReset(ResetPasswordDTO{
				Token:       token,
				NewPassword: "brand-new-password",
			})
			gomega.Expect(err).To(gomega.Equal(ErrResetTokenInvalid))
		})
	})
})

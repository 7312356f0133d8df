package auth

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/constituency-office/citizen-portal/pkg/logger"
)

var _ = Describe("AuthMiddleware", func() {
	const protectedBody = "account details"

	var (
		mockRepo   *mockAuthRepository
		tokenGen   *JWTTokenGenerator
		handler    *Handler
		nextCalled bool
		seenUser   *User
		next       http.Handler
	)

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator("access-secret", "refresh-secret", time.Minute, time.Hour)
		service := NewService(mockRepo, tokenGen, nil, bcrypt.MinCost, time.Hour, logger.NewTestLogger())
		handler = NewHandler(service)

		nextCalled = false
		seenUser = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			seenUser, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(protectedBody))
		})
	})

	serve := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(w, req)
		return w
	}

	It("should return 401 without an authorization header and never reach the handler", func() {
		w := serve("")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
		Expect(w.Body.String()).NotTo(ContainSubstring(protectedBody))
	})

	It("should return 401 for a token that does not parse", func() {
		w := serve("Bearer not-a-token")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
	})

	It("should return 401 for a token signed with a different secret", func() {
		otherGen := NewJWTTokenGenerator("some-other-secret", "refresh-secret", time.Minute, time.Hour)
		token, err := otherGen.GenerateAccessToken(1, "citizen@example.com", RoleCitizen)
		Expect(err).NotTo(HaveOccurred())

		w := serve("Bearer " + token)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
	})

	It("should return 401 for an expired token", func() {
		expiredGen := &JWTTokenGenerator{
			AccessTokenSecret: []byte("access-secret"),
			AccessTokenTTL:    -time.Minute,
		}
		token, err := expiredGen.GenerateAccessToken(1, "citizen@example.com", RoleCitizen)
		Expect(err).NotTo(HaveOccurred())

		w := serve("Bearer " + token)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
	})

	It("should return 401 when the token's identity no longer resolves", func() {
		token, err := tokenGen.GenerateAccessToken(999, "gone@example.com", RoleCitizen)
		Expect(err).NotTo(HaveOccurred())

		w := serve("Bearer " + token)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(nextCalled).To(BeFalse())
	})

	It("should resolve the identity into the request context for a valid token", func() {
		token, err := tokenGen.GenerateAccessToken(2, "staff@example.com", RoleStaff)
		Expect(err).NotTo(HaveOccurred())

		w := serve("Bearer " + token)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(nextCalled).To(BeTrue())
		Expect(seenUser).NotTo(BeNil())
		Expect(seenUser.ID).To(Equal(int64(2)))
		Expect(seenUser.Role).To(Equal(RoleStaff))
		Expect(w.Body.String()).To(Equal(protectedBody))
	})
})

package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avachat/avachat/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// mockOTPCode is the fixed passcode the mock "emails" for every request.
const mockOTPCode = "123456"

// MockProvider is an in-process identity provider used by tests and the
// preview context. It issues real signed tokens so the same claim-parsing
// path runs against it as against the live provider.
//
// Contract:
//   - email/password sign-up yields Provider "password", EmailVerified
//     true and IsAnonymous false;
//   - OTP verification yields Provider "email";
//   - anonymous sign-in yields an empty AuthID;
//   - the OTP for every address is the fixed code "123456".
type MockProvider struct {
	mu         sync.Mutex
	passwords  map[string][]byte // email -> bcrypt hash
	subjects   map[string]string // email -> stable subject claim
	pendingOTP map[string]string // email -> code

	signingKey []byte
	issuer     string
}

var _ Client = (*MockProvider)(nil)

// NewMockProvider returns an empty provider with a random signing key.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		passwords:  make(map[string][]byte),
		subjects:   make(map[string]string),
		pendingOTP: make(map[string]string),
		signingKey: []byte(uuid.NewString()),
		issuer:     "https://mock.avachat.test/",
	}
}

func (m *MockProvider) SignUp(ctx context.Context, email, password string) (*AuthenticationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.passwords[email]; exists {
		return nil, &APIError{Status: 409, Message: "account already exists"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	m.passwords[email] = hash

	return m.issue(email, "password")
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*AuthenticationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash, exists := m.passwords[email]
	if !exists {
		return nil, common.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}
	return m.issue(email, "password")
}

func (m *MockProvider) SignInAnonymously(ctx context.Context) (*AuthenticationResult, error) {
	return &AuthenticationResult{IsAnonymous: true}, nil
}

func (m *MockProvider) SendOTP(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingOTP[email] = mockOTPCode
	return nil
}

func (m *MockProvider) VerifyOTP(ctx context.Context, email, code string) (*AuthenticationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want, pending := m.pendingOTP[email]
	if !pending || code != want {
		return nil, common.ErrUnauthorized
	}
	delete(m.pendingOTP, email)

	return m.issue(email, "email")
}

func (m *MockProvider) SignInWithProvider(ctx context.Context, provider string) (*AuthenticationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := provider
	if provider == "google" {
		prefix = "google-oauth2"
	}
	key := provider + ":" + provider + "-user"
	sub, exists := m.subjects[key]
	if !exists {
		sub = fmt.Sprintf("%s|%s", prefix, uuid.NewString())
		m.subjects[key] = sub
	}

	token, err := m.sign(jwt.MapClaims{
		"iss":            m.issuer,
		"sub":            sub,
		"email":          provider + "-user@example.com",
		"email_verified": true,
		"iat":            time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return ResultFromToken(token)
}

// issue signs a token for an email account and runs it through the same
// claim extraction the live path uses. Callers hold the mutex.
func (m *MockProvider) issue(email, idp string) (*AuthenticationResult, error) {
	sub, exists := m.subjects[email]
	if !exists {
		sub = fmt.Sprintf("auth0|%s", uuid.NewString())
		m.subjects[email] = sub
	}

	token, err := m.sign(jwt.MapClaims{
		"iss":            m.issuer,
		"sub":            sub,
		"email":          email,
		"email_verified": true,
		"idp":            idp,
		"iat":            time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return ResultFromToken(token)
}

func (m *MockProvider) sign(claims jwt.MapClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

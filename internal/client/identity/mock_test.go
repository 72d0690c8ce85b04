package identity

import (
	"context"
	"testing"

	"github.com/avachat/avachat/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_PasswordSignUpContract(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	got, err := m.SignUp(ctx, "user@example.com", "s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, got.AuthID)
	assert.Equal(t, "password", got.Provider)
	require.NotNil(t, got.Email)
	assert.Equal(t, "user@example.com", *got.Email)
	assert.True(t, got.EmailVerified)
	assert.False(t, got.IsAnonymous)
	assert.False(t, got.IsGuest())
	assert.NotEmpty(t, got.IDToken)
}

func TestMockProvider_SignIn(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	signedUp, err := m.SignUp(ctx, "user@example.com", "s3cret")
	require.NoError(t, err)

	got, err := m.SignIn(ctx, "user@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, signedUp.AuthID, got.AuthID, "subject is stable across sign-ins")

	_, err = m.SignIn(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = m.SignIn(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestMockProvider_SignUpTwiceFails(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	_, err := m.SignUp(ctx, "user@example.com", "s3cret")
	require.NoError(t, err)
	_, err = m.SignUp(ctx, "user@example.com", "other")
	assert.Error(t, err)
}

func TestMockProvider_OTPFlow(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	_, err := m.VerifyOTP(ctx, "user@example.com", mockOTPCode)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "code without a prior send is rejected")

	require.NoError(t, m.SendOTP(ctx, "user@example.com"))

	_, err = m.VerifyOTP(ctx, "user@example.com", "000000")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	got, err := m.VerifyOTP(ctx, "user@example.com", mockOTPCode)
	require.NoError(t, err)
	assert.Equal(t, "email", got.Provider)
	assert.NotEmpty(t, got.AuthID)

	_, err = m.VerifyOTP(ctx, "user@example.com", mockOTPCode)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "codes are single use")
}

func TestMockProvider_AnonymousIsGuest(t *testing.T) {
	m := NewMockProvider()

	got, err := m.SignInAnonymously(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.AuthID)
	assert.True(t, got.IsGuest())
	assert.True(t, got.IsAnonymous)
	assert.Empty(t, got.IDToken)
}

func TestMockProvider_SocialSignIn(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	got, err := m.SignInWithProvider(ctx, "google")
	require.NoError(t, err)
	assert.Equal(t, "google", got.Provider)
	assert.Contains(t, got.AuthID, "google-oauth2|")

	again, err := m.SignInWithProvider(ctx, "google")
	require.NoError(t, err)
	assert.Equal(t, got.AuthID, again.AuthID)

	fb, err := m.SignInWithProvider(ctx, "facebook")
	require.NoError(t, err)
	assert.Equal(t, "facebook", fb.Provider)
}

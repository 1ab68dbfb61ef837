package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/config"
)

func newTestIssuer(clock *fakeClock) *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{
		JWTSecret:           "test-secret",
		AccessTokenDuration: time.Hour,
	}).WithClock(clock.Now)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(newFakeClock())

	signed, err := issuer.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, strconv.Itoa(42), claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestTokenExpiryIsEnforced(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	signed, err := issuer.Issue(42)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)

	_, err = issuer.Verify(signed)
	assert.Error(t, err)
}

func TestTokenJustBeforeExpiryIsAccepted(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	signed, err := issuer.Issue(42)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
}

func TestTokenWrongSecretIsRejected(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)
	other := NewTokenIssuer(config.AuthConfig{
		JWTSecret:           "different-secret",
		AccessTokenDuration: time.Hour,
	}).WithClock(clock.Now)

	signed, err := other.Issue(42)
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.Error(t, err)
}

func TestTokenGarbageIsRejected(t *testing.T) {
	issuer := newTestIssuer(newFakeClock())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}

func TestTokenWithoutUserIdentityIsRejected(t *testing.T) {
	clock := newFakeClock()
	issuer := newTestIssuer(clock)

	signed, err := issuer.Issue(0)
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.Error(t, err)
}

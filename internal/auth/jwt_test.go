package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("super-secret"), time.Hour)
	tok, err := m.Issue("alice01", 42)
	require.NoError(t, err)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice01", claims.Username)
	assert.Equal(t, "alice01", claims.Subject)
	assert.EqualValues(t, 42, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)

	name, err := m.ExtractUsername(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice01", name)

	id, err := m.ExtractUserID(tok)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	tok, err := m.Issue("bob", 7)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Verify(tok)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindToken))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager([]byte("right-secret"), time.Hour).Issue("carol", 3)
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("wrong-secret"), time.Hour).Verify(tok)
	assert.True(t, apperr.Is(err, apperr.KindToken))
}

func TestVerify_UnsignedAndMalformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:   1,
		Username: "eve",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "eve",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, tok := range []string{"", "not.a.jwt", "garbage", s} {
		_, err := m.Verify(tok)
		assert.True(t, apperr.Is(err, apperr.KindToken), "token %q", tok)
	}

	_, err = m.ExtractUsername("not.a.jwt")
	assert.True(t, apperr.Is(err, apperr.KindToken))
	_, err = m.ExtractUserID("not.a.jwt")
	assert.True(t, apperr.Is(err, apperr.KindToken))
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           1,
		Username:         "frank",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "frank"},
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenManager(secret, time.Hour).Verify(s)
	assert.True(t, apperr.Is(err, apperr.KindToken))
}

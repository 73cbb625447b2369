package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := NewToken(testAccessSecret, "alice", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), tok.Exp, 2*time.Second)

	subject, err := ParseToken(testAccessSecret, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenExpired(t *testing.T) {
	tok, err := NewToken(testAccessSecret, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testAccessSecret, tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenKindIsolation(t *testing.T) {
	access, err := NewToken(testAccessSecret, "alice", time.Minute)
	require.NoError(t, err)
	refresh, err := NewToken(testRefreshSecret, "alice", time.Hour)
	require.NoError(t, err)

	// A token of one kind must not validate against the other kind's
	// secret.
	_, err = ParseToken(testRefreshSecret, access.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ParseToken(testAccessSecret, refresh.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseToken(testAccessSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("pw", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "pw"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

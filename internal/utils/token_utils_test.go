package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-that-is-long-enough"

func TestIssueAndParseUserToken(t *testing.T) {
	token, err := IssueUserToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseUserToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseUserToken_WrongSecret(t *testing.T) {
	token, err := IssueUserToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseUserToken(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseUserToken_Expired(t *testing.T) {
	token, err := IssueUserToken("user-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseUserToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseUserToken_MissingSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseUserToken(token, secret)
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = IssueUserToken("", secret, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

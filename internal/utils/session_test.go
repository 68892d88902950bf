package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "user", 60)
	require.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now()))

	id, err := ParseSessionToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "user", 60)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "user", -1)
	require.NoError(t, err)

	_, err = ParseSessionToken("test-secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("test-secret", "not.a.jwt")
	assert.Error(t, err)
}

package jwtPkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	token, exp, err := Sign(map[string]interface{}{"role": "admin"}, time.Hour, "secret")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := VerifyTokenHeader("Bearer "+token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["role"])
}

func TestVerifyRejects(t *testing.T) {
	token, _, err := Sign(map[string]interface{}{"role": "admin"}, time.Hour, "secret")
	require.NoError(t, err)

	_, err = VerifyTokenHeader("", "secret")
	assert.ErrorIs(t, err, ErrEmptyHeader)

	_, err = VerifyTokenHeader("Token "+token, "secret")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = VerifyTokenHeader("Bearer "+token, "other")
	assert.Error(t, err)

	_, err = VerifyTokenHeader("Bearer "+token, "")
	assert.ErrorIs(t, err, ErrNoSecret)

	expired, _, err := Sign(nil, -time.Minute, "secret")
	require.NoError(t, err)
	_, err = VerifyTokenHeader("Bearer "+expired, "secret")
	assert.Error(t, err)
}

func TestSignRequiresSecret(t *testing.T) {
	_, _, err := Sign(nil, time.Hour, "")
	assert.ErrorIs(t, err, ErrNoSecret)
}

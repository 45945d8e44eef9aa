package handler_test

import (
	"testing"
	"time"

	"eventchat/backend/internal/api/handler"
	"eventchat/backend/internal/chaterr"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := handler.NewTokenService("test-secret")

	signed, err := tokens.Issue(handler.Identity{UserID: "user_A", DisplayName: "Alice"})
	assert.NoError(t, err)

	id, err := tokens.Verify(signed)
	assert.NoError(t, err)
	assert.Equal(t, "user_A", id.UserID)
	assert.Equal(t, "Alice", id.DisplayName)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	signed, err := handler.NewTokenService("secret-one").
		Issue(handler.Identity{UserID: "user_A"})
	assert.NoError(t, err)

	_, err = handler.NewTokenService("secret-two").Verify(signed)
	assert.Error(t, err)
	assert.True(t, chaterr.Has(err, chaterr.AuthenticationMissing))
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	tokens := handler.NewTokenService("test-secret")
	_, err := tokens.Verify("not-a-token")
	assert.True(t, chaterr.Has(err, chaterr.AuthenticationMissing))
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"sub": "user_A",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iss": "eventchat-service",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	assert.NoError(t, err)

	_, err = handler.NewTokenService("test-secret").Verify(signed)
	assert.True(t, chaterr.Has(err, chaterr.AuthenticationMissing))
}

func TestTokenService_RejectsMissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
		"iss": "eventchat-service",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	assert.NoError(t, err)

	_, err = handler.NewTokenService("test-secret").Verify(signed)
	assert.True(t, chaterr.Has(err, chaterr.AuthenticationMissing))
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tahfidz-api/internal/models"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "tahfidz-api", Expiry: time.Hour})

	token, err := svc.Issue("user-1", models.RoleTeacher, "Ustadh Kareem")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "Ustadh Kareem", claims.FullName)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "other", Issuer: "tahfidz-api"})
	token, err := issuer.Issue("user-1", models.RoleTeacher, "")
	require.NoError(t, err)

	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "tahfidz-api"})
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	expired := NewTokenService(TokenConfig{Secret: "secret", Issuer: "tahfidz-api", Expiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err = expired.Issue("user-1", models.RoleTeacher, "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

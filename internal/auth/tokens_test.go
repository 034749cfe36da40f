package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
)

func TestIssueAndParseRefresh(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := models.User{ID: 42, Username: "jdoe", Role: models.RoleTeacher}

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, 60, pair.ExpiresIn)

	claims, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "TEACHER", claims.Role)
	require.Equal(t, "42", claims.Subject)
}

func TestParseRefreshRejectsAccessToken(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	pair, err := issuer.Issue(models.User{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	require.Error(t, err)
}

func TestAccessTokenCarriesRoleClaim(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)

	pair, err := issuer.Issue(models.User{ID: 7, Role: models.RoleSchoolAdmin})
	require.NoError(t, err)

	token, err := jwt.Parse(pair.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "SCHOOL_ADMIN", claims["role"])
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "password123"))
	require.False(t, CheckPassword(hash, "wrong"))
}

package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	token, err := Issue("s3cret", 42, "admin", 1)
	require.NoError(t, err)

	claims, err := ParseAuth("Bearer "+token, "s3cret")
	require.NoError(t, err)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestParse_NoBearerPrefix(t *testing.T) {
	token, err := Issue("s3cret", 1, "user", 1)
	require.NoError(t, err)

	claims, err := ParseAuth(token, "s3cret")
	require.NoError(t, err)
	require.Equal(t, "user", claims["role"])
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Issue("s3cret", 1, "user", 1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+token, "other")
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Issue("s3cret", 1, "user", -1)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+token, "s3cret")
	require.Error(t, err)
}

func TestParse_RejectsNone(t *testing.T) {
	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"sub": 1})
	token, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAuth("Bearer "+token, "s3cret")
	require.Error(t, err)
}

func TestParse_Missing(t *testing.T) {
	_, err := ParseAuth("", "s3cret")
	require.Error(t, err)
	_, err = ParseAuth("Bearer ", "s3cret")
	require.Error(t, err)
}

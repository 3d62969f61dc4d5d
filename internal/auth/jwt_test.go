package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/medicare-be/internal/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testUser() models.User {
	return models.User{ID: 1, Username: "alice", Role: "caregiver"}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "caregiver", claims.Role)
	require.NotEmpty(t, claims.ID, "token should carry a jti")

	// Fixed one-hour lifetime from issuance.
	require.WithinDuration(t, claims.IssuedAt.Add(1*time.Hour), claims.ExpiresAt.Time, time.Second)
	require.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestValidate_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	// Sign an already-expired token with the issuer's secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:   1,
		Username: "alice",
		Role:     "caregiver",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = issuer.Validate(tokenStr)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("other-secret").Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret).Validate(token)
	require.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestValidate_Tampered(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// Flip the first character of the signature segment.
	i := strings.LastIndex(token, ".") + 1
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	tampered := token[:i] + string(replacement) + token[i+1:]
	_, err = issuer.Validate(tampered)
	require.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestValidate_Malformed(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(tt.token)
			require.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestValidate_WrongAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	// alg=none is never acceptable, whatever the payload claims.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 1})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Validate(tokenStr)
	require.Error(t, err)
}

package authsvc

import (
	"context"
	"testing"
	"time"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = TokenConfig{
	Secret:   "test-secret",
	TTL:      time.Hour,
	Audience: "taskfolio-test",
	Issuer:   "taskfolio-test",
}

func TestAuthorizeOwner(t *testing.T) {
	assert.NoError(t, AuthorizeOwner(1, 1))
	assert.ErrorIs(t, AuthorizeOwner(1, 2), ErrPermissionDenied)
	assert.ErrorIs(t, AuthorizeOwner(2, 1), ErrPermissionDenied)
}

func TestSubjectFromContext(t *testing.T) {
	ctx := claimsContext(stdjwt.MapClaims{
		"sub":   float64(7),
		"email": "john@doe.com",
		"aud":   testTokens.Audience,
		"iss":   testTokens.Issuer,
	})

	subject, err := SubjectFromContext(ctx, testTokens)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), subject.UserID)
	assert.Equal(t, "john@doe.com", subject.Email)
}

func TestSubjectFromContextMissingClaims(t *testing.T) {
	_, err := SubjectFromContext(context.Background(), testTokens)
	assert.ErrorIs(t, err, ErrClaimsMissing)
}

func TestSubjectFromContextAudienceMismatch(t *testing.T) {
	ctx := claimsContext(stdjwt.MapClaims{
		"sub":   float64(7),
		"email": "john@doe.com",
		"aud":   "someone-else",
		"iss":   testTokens.Issuer,
	})

	_, err := SubjectFromContext(ctx, testTokens)
	assert.ErrorIs(t, err, ErrClaimsInvalid)
}

func TestSubjectFromContextIssuerMismatch(t *testing.T) {
	ctx := claimsContext(stdjwt.MapClaims{
		"sub":   float64(7),
		"email": "john@doe.com",
		"aud":   testTokens.Audience,
		"iss":   "someone-else",
	})

	_, err := SubjectFromContext(ctx, testTokens)
	assert.ErrorIs(t, err, ErrClaimsInvalid)
}

func TestSubjectFromContextMalformedSubject(t *testing.T) {
	ctx := claimsContext(stdjwt.MapClaims{
		"sub":   "not-a-number",
		"email": "john@doe.com",
		"aud":   testTokens.Audience,
		"iss":   testTokens.Issuer,
	})

	_, err := SubjectFromContext(ctx, testTokens)
	assert.ErrorIs(t, err, ErrClaimsInvalid)
}

func claimsContext(claims stdjwt.MapClaims) context.Context {
	return context.WithValue(context.Background(), kitjwt.JWTClaimsContextKey, claims)
}

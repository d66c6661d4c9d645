package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
)

// TokenConfig holds the signing parameters shared by the tokenizer and the
// per-request claim checks.
type TokenConfig struct {
	Secret   string
	TTL      time.Duration
	Audience string
	Issuer   string
}

// Subject is the identity extracted from a verified bearer token.
type Subject struct {
	UserID uint64
	Email  string
}

// SubjectFromContext reads the parsed JWT claims placed in the context by
// the transport layer and returns the caller's identity. Audience and
// issuer are checked here; signature and expiry were already verified by
// the token parser.
func SubjectFromContext(ctx context.Context, cfg TokenConfig) (Subject, error) {
	claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(stdjwt.MapClaims)
	if !ok {
		return Subject{}, ErrClaimsMissing
	}

	if !claims.VerifyAudience(cfg.Audience, true) {
		return Subject{}, ErrClaimsInvalid
	}

	if !claims.VerifyIssuer(cfg.Issuer, true) {
		return Subject{}, ErrClaimsInvalid
	}

	userID, err := strconv.ParseUint(fmt.Sprintf("%.f", claims["sub"]), 10, 64)
	if err != nil {
		return Subject{}, ErrClaimsInvalid
	}

	email, ok := claims["email"].(string)
	if !ok {
		return Subject{}, ErrClaimsInvalid
	}

	return Subject{UserID: userID, Email: email}, nil
}

// AuthorizeOwner is the single rule gating every mutating user and task
// operation: a subject may only mutate a resource whose owner id equals
// its own. There is no role hierarchy and no admin override.
func AuthorizeOwner(subjectID, ownerID uint64) error {
	if subjectID != ownerID {
		return ErrPermissionDenied
	}
	return nil
}

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("user/password incorrect")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrClaimsMissing      = errors.New("JWT claims was not passed through the context")
	ErrClaimsInvalid      = errors.New("JWT claims was invalid")
)

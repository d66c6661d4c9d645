package authservice

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/twinj/uuid"
)

// Tokenizer issues signed bearer tokens carrying the identity claims.
// Verification happens per request in the transports, which parse the
// Authorization header against the same configuration.
type Tokenizer interface {
	Issue(userID uint64, email string) (string, error)
}

type tokenizer struct {
	cfg authsvc.TokenConfig
}

func NewTokenizer(cfg authsvc.TokenConfig) Tokenizer {
	return &tokenizer{cfg: cfg}
}

func (t *tokenizer) Issue(userID uint64, email string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"aud":   t.cfg.Audience,
		"iss":   t.cfg.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(t.cfg.TTL).Unix(),
		"jti":   uuid.NewV4().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.cfg.Secret))
}

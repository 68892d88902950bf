package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is a signed HS256 JWT identifying a logged-in user. It is
// set as an HTTP-only cookie on login and also accepted as a bearer token.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs a session JWT carrying the user id as
// subject and the role name as a claim.
func NewSessionToken(secret string, userID uint64, role string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

var errInvalidSession = errors.New("invalid session token")

// ParseSessionToken validates the signature and expiry of a session JWT
// and returns the user id it carries.
func ParseSessionToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, errInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidSession
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 {
		return 0, errInvalidSession
	}
	return uint64(sub), nil
}

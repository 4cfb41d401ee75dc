package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/yshebel/customerhub/internal/model"
)

// TokenClaims represents session token claims
type TokenClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Token represents signed session token and unix expires at
type Token struct {
	Signed    string
	ExpiresAt int64
}

// TokenIssuer issues session tokens according to config
type TokenIssuer struct {
	issuer     string
	timeToLive time.Duration
	secret     []byte
}

// NewTokenIssuer builds TokenIssuer
func NewTokenIssuer(issuer string, ttl time.Duration, secret []byte) *TokenIssuer {
	return &TokenIssuer{
		issuer:     issuer,
		timeToLive: ttl,
		secret:     secret,
	}
}

// Sign issues new session token for user
func (i *TokenIssuer) Sign(u *model.User, issuedAt time.Time) (*Token, error) {
	expiresAt := issuedAt.Add(i.timeToLive)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		Role: u.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Signed: signed, ExpiresAt: expiresAt.Unix()}, nil
}

// TokenValidator verifies session tokens according to config
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator builds new TokenValidator
func NewTokenValidator(secret []byte) *TokenValidator {
	return &TokenValidator{secret: secret}
}

// Verify checks if session token is valid
func (v *TokenValidator) Verify(rawToken string) (TokenClaims, error) {
	var claims TokenClaims
	if _, err := jwt.ParseWithClaims(rawToken, &claims, v.keyFunc); err != nil {
		return TokenClaims{}, err
	}
	return claims, nil
}

func (v *TokenValidator) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("failed to verify signing algorithm")
	}
	return v.secret, nil
}

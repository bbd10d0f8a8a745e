package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair holds access and refresh tokens. Refresh tokens are signed with
// a separate secret so a leaked access key cannot mint long-lived tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Claims represents the JWT payload: the user id and role.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Keys bundles the signing material and issuer for token operations.
type Keys struct {
	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Issue signs an access/refresh token pair for a user.
func (k Keys) Issue(userID int64, role string) (TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(k.AccessTTL)
	refreshExp := now.Add(k.RefreshTTL)

	access, err := sign(userID, role, k.Issuer, k.AccessSecret, now, accessExp)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(userID, role, k.Issuer, k.RefreshSecret, now, refreshExp)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (k Keys) Refresh(refreshToken string) (string, error) {
	claims, err := parse(refreshToken, k.RefreshSecret, k.Issuer)
	if err != nil {
		return "", err
	}
	now := time.Now()
	return sign(claims.UserID, claims.Role, k.Issuer, k.AccessSecret, now, now.Add(k.AccessTTL))
}

// ParseAccess validates an access token and returns its claims.
func (k Keys) ParseAccess(token string) (Claims, error) {
	return parse(token, k.AccessSecret, k.Issuer)
}

func sign(userID int64, role, issuer, secret string, now, exp time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(tokenStr, secret, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	return *claims, nil
}

package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"

	claimSessionID = "sid"
	claimName      = "name"
	claimEmail     = "email"
	claimIsAdmin   = "is_admin"
	claimType      = "type"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// AccessClaims is the identity carried by an access token.
type AccessClaims struct {
	UserID    int64
	SessionID string
	Name      string
	Email     string
	IsAdmin   bool
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	// GenerateRefreshToken returns an opaque random token. Only its hash is stored.
	GenerateRefreshToken() (token string, expiresAt int64, err error)
	HashRefreshToken(token string) string
	ParseAccessClaims(token jwt.Token) (AccessClaims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	tokenAuth              *jwtauth.JWTAuth
	now                    func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpiration, refreshTokenExpiration time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpiration:  accessTokenExpiration,
		refreshTokenExpiration: refreshTokenExpiration,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                    time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		jwt.SubjectKey:    strconv.FormatInt(c.UserID, 10),
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: expiresAt,
		claimSessionID:    c.SessionID,
		claimName:         c.Name,
		claimEmail:        c.Email,
		claimIsAdmin:      c.IsAdmin,
		claimType:         TokenTypeAccess,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("encode access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) GenerateRefreshToken() (token string, expiresAt int64, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", 0, fmt.Errorf("generate refresh token: %w", err)
	}
	expiresAt = j.now().Add(j.refreshTokenExpiration).Unix()
	return base64.RawURLEncoding.EncodeToString(buf), expiresAt, nil
}

// HashRefreshToken hashes the token using SHA256 and encodes the result in base64.
func (j *JWTService) HashRefreshToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// ParseAccessClaims extracts the identity from a verified access token.
func (j *JWTService) ParseAccessClaims(token jwt.Token) (AccessClaims, error) {
	if tokenType, ok := token.Get(claimType); !ok || tokenType != TokenTypeAccess {
		return AccessClaims{}, fmt.Errorf("%w: not an access token", ErrInvalidClaims)
	}

	userID, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil {
		return AccessClaims{}, fmt.Errorf("%w: subject", ErrInvalidClaims)
	}

	var c AccessClaims
	c.UserID = userID
	if c.SessionID, err = stringClaim(token, claimSessionID); err != nil {
		return AccessClaims{}, err
	}
	if c.Name, err = stringClaim(token, claimName); err != nil {
		return AccessClaims{}, err
	}
	if c.Email, err = stringClaim(token, claimEmail); err != nil {
		return AccessClaims{}, err
	}
	if v, ok := token.Get(claimIsAdmin); ok {
		c.IsAdmin, _ = v.(bool)
	}
	return c, nil
}

func stringClaim(token jwt.Token, key string) (string, error) {
	v, ok := token.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidClaims, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidClaims, key)
	}
	return s, nil
}

// Package auth signs device tokens and hashes the admin password.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/souqhup/config"
)

const issuer = "souqhup"

// DeviceClaims is the payload of the device cookie.
type DeviceClaims struct {
	DeviceID string `json:"did"`
	jwt.RegisteredClaims
}

// Signer issues and verifies device tokens with an HMAC secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// DefaultSigner reads JWT_SECRET and SESSION_TTL.
func DefaultSigner() *Signer {
	return NewSigner(config.JWTSecret(), config.SessionTTL())
}

func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue returns a signed token for deviceID.
func (s *Signer) Issue(deviceID string) (string, error) {
	now := s.now()
	claims := DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   deviceID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token and returns its device id.
func (s *Signer) Parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &DeviceClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*DeviceClaims)
	if !ok || !parsed.Valid || claims.DeviceID == "" {
		return "", errors.New("auth: invalid device claims")
	}
	return claims.DeviceID, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Roles carried in the "role" claim.
const (
	RolePatient = "user"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Claims is what the booking core needs from a bearer token.
type Claims struct {
	Subject string
	Role    string
}

// TokenSigner issues and verifies HS256 tokens with one shared secret.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT token for subject with the given role.
// The token expires after the specified duration.
func (s *TokenSigner) GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (s *TokenSigner) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
}

// ExtractClaims validates tokenString and returns its subject and role.
func (s *TokenSigner) ExtractClaims(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, errors.New("token secret not configured")
	}
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return Claims{}, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, ok := mc["role"].(string)
	if !ok || role == "" {
		return Claims{}, errors.New("token does not contain a valid 'role' claim")
	}
	return Claims{Subject: sub, Role: role}, nil
}

// Package auth holds the credential store and the stateless token service.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Callers never
// learn whether the signature, the expiry or the encoding was wrong.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenFormat selects how tokens are encoded on the wire.
type TokenFormat string

const (
	// FormatHMAC produces "<user_id>:<expiry_unix>:<hex hmac-sha256>".
	FormatHMAC TokenFormat = "hmac"
	// FormatJWT produces an HS256 JWT with sub and exp claims.
	FormatJWT TokenFormat = "jwt"

	DefaultTokenTTL = 30 * 24 * time.Hour
)

// TokenService issues and verifies self-contained session tokens signed with
// a server-held secret. It keeps no server-side session state.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	format TokenFormat
	now    func() time.Time
}

type TokenOption func(*TokenService)

func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) { s.ttl = ttl }
}

func WithFormat(format TokenFormat) TokenOption {
	return func(s *TokenService) { s.format = format }
}

// WithClock overrides time.Now, used by tests to cross the expiry boundary.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is not set")
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		format: FormatHMAC,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}

	switch s.format {
	case FormatHMAC, FormatJWT:
	default:
		return nil, fmt.Errorf("unsupported token format %q", s.format)
	}

	return s, nil
}

// Issue returns a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID uint) (string, error) {
	expiry := s.now().Add(s.ttl).Unix()

	if s.format == FormatJWT {
		claims := jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiry, 0)),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		return token.SignedString(s.secret)
	}

	payload := strconv.FormatUint(uint64(userID), 10) + ":" + strconv.FormatInt(expiry, 10)
	return payload + ":" + s.sign(payload), nil
}

// Verify returns the user id carried by token, or ErrInvalidToken.
func (s *TokenService) Verify(token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	if s.format == FormatJWT {
		return s.verifyJWT(token)
	}

	return s.verifyHMAC(token)
}

func (s *TokenService) verifyHMAC(token string) (uint, error) {
	idx := strings.LastIndexByte(token, ':')
	if idx <= 0 {
		return 0, ErrInvalidToken
	}

	payload, signature := token[:idx], token[idx+1:]

	if !hmac.Equal([]byte(signature), []byte(s.sign(payload))) {
		return 0, ErrInvalidToken
	}

	idPart, expiryPart, ok := strings.Cut(payload, ":")
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := parseUserID(idPart)
	if err != nil {
		return 0, ErrInvalidToken
	}

	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil || expiry < s.now().Unix() {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *TokenService) verifyJWT(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := parseUserID(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *TokenService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("zero user id")
	}
	return uint(id), nil
}

// BearerToken strips an optional "Bearer" scheme from an authorization
// header value. A header carrying only the scheme yields "".
func BearerToken(header string) string {
	header = strings.TrimSpace(header)

	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}

	if strings.EqualFold(header, "Bearer") {
		return ""
	}

	return header
}

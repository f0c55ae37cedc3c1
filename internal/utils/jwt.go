package utils // package utils provides helper functions for token creation and hashing

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
)

// TokenKind distinguishes access from refresh tokens inside the "typ" claim.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// minKeyBytes is the smallest HS256 key accepted (256 bits).
const minKeyBytes = 32

// Causes behind an Unauthorized verification result. They are wrapped inside
// an *apperror.Error so callers can log the precise reason with errors.Is.
var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrTokenSignature   = errors.New("token signature is invalid")
	ErrTokenUnsupported = errors.New("token algorithm is unsupported")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenKind        = errors.New("token kind mismatch")
	ErrTokenInvalid     = errors.New("token is invalid")
)

// TokenConfig is the signing configuration handed to the codec at
// construction. Secret is the base64 encoding of the HMAC key.
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are the JWT claims carried by both token kinds. The subject is the
// user's email.
type Claims struct {
	Kind TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// Token is a signed JWT along with its expiry.
type Token struct {
	Value     string
	Kind      TokenKind
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 bearer tokens. It holds no mutable
// state, so a single instance is shared by all request goroutines.
type TokenCodec struct {
	key    []byte
	cfg    TokenConfig
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces the time source used for issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec decodes the signing key and validates lifetimes.
func NewTokenCodec(cfg TokenConfig, opts ...CodecOption) (*TokenCodec, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", minKeyBytes, len(key))
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	c := &TokenCodec{key: key, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	c.parser = jwt.NewParser(parserOpts...)
	return c, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.cfg.AccessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration { return c.cfg.RefreshTTL }

// IssueAccessToken signs a short-lived token for subject.
func (c *TokenCodec) IssueAccessToken(subject string) (Token, error) {
	return c.issue(subject, KindAccess, c.cfg.AccessTTL)
}

// IssueRefreshToken signs a long-lived token for subject.
func (c *TokenCodec) IssueRefreshToken(subject string) (Token, error) {
	return c.issue(subject, KindRefresh, c.cfg.RefreshTTL)
}

func (c *TokenCodec) issue(subject string, kind TokenKind, ttl time.Duration) (Token, error) {
	if subject == "" {
		return Token{}, errors.New("token subject is empty")
	}
	now := c.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return Token{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return Token{Value: signed, Kind: kind, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature, algorithm, structure and expiry of raw. Any
// failure is an Unauthorized *apperror.Error wrapping one of the ErrToken*
// causes. A token is valid strictly before its expiry instant.
func (c *TokenCodec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := c.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenUnsupported
		}
		return c.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, apperror.Unauthorized("Invalid JWT token", ErrTokenInvalid)
	}
	if claims.Subject == "" {
		return nil, apperror.Unauthorized("JWT claims string is empty", ErrTokenMalformed)
	}
	return claims, nil
}

// VerifyAccess verifies raw and requires it to be an access token.
func (c *TokenCodec) VerifyAccess(raw string) (*Claims, error) {
	return c.verifyKind(raw, KindAccess)
}

// VerifyRefresh verifies raw and requires it to be a refresh token.
func (c *TokenCodec) VerifyRefresh(raw string) (*Claims, error) {
	return c.verifyKind(raw, KindRefresh)
}

func (c *TokenCodec) verifyKind(raw string, kind TokenKind) (*Claims, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, apperror.Unauthorized("Invalid JWT token",
			fmt.Errorf("%w: want %s, got %q", ErrTokenKind, kind, claims.Kind))
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupported):
		return apperror.Unauthorized("Unsupported JWT token", fmt.Errorf("%w: %v", ErrTokenUnsupported, err))
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperror.Unauthorized("Invalid JWT token", fmt.Errorf("%w: %v", ErrTokenMalformed, err))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperror.Unauthorized("Invalid JWT signature", fmt.Errorf("%w: %v", ErrTokenSignature, err))
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperror.Unauthorized("Expired JWT token", fmt.Errorf("%w: %v", ErrTokenExpired, err))
	default:
		return apperror.Unauthorized("JWT token is invalid", fmt.Errorf("%w: %v", ErrTokenInvalid, err))
	}
}

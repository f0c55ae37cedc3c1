package utils

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
)

var (
	testKey   = []byte("0123456789abcdef0123456789abcdef")
	otherKey  = []byte("fedcba9876543210fedcba9876543210")
	testEpoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(t *testing.T, key []byte, clock *fakeClock) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(TokenConfig{
		Secret:     base64.StdEncoding.EncodeToString(key),
		Issuer:     "test-issuer",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestNewTokenCodec_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  TokenConfig
	}{
		{"not base64", TokenConfig{Secret: "%%%", AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"short key", TokenConfig{Secret: base64.StdEncoding.EncodeToString([]byte("short")), AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"zero ttl", TokenConfig{Secret: base64.StdEncoding.EncodeToString(testKey), RefreshTTL: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenCodec(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	codec := newTestCodec(t, testKey, clock)

	access, err := codec.IssueAccessToken("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, KindAccess, access.Kind)
	assert.Equal(t, testEpoch.Add(15*time.Minute), access.ExpiresAt)

	refresh, err := codec.IssueRefreshToken("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, testEpoch.Add(7*24*time.Hour), refresh.ExpiresAt)

	claims, err := codec.Verify(access.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, testEpoch, claims.IssuedAt.Time.UTC())
	assert.NotEmpty(t, claims.ID)

	claims, err = codec.VerifyRefresh(refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, claims.Kind)
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	codec := newTestCodec(t, testKey, clock)

	tok, err := codec.IssueAccessToken("a@x.com")
	require.NoError(t, err)

	clock.t = tok.ExpiresAt.Add(-time.Nanosecond)
	_, err = codec.VerifyAccess(tok.Value)
	assert.NoError(t, err, "token must be valid strictly before expiry")

	clock.t = tok.ExpiresAt
	_, err = codec.VerifyAccess(tok.Value)
	require.Error(t, err, "token must be rejected at the expiry instant")
	assert.True(t, errors.Is(err, ErrTokenExpired))
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	clock.t = tok.ExpiresAt.Add(time.Hour)
	_, err = codec.VerifyAccess(tok.Value)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestTokenCodec_RejectsForeignSignature(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	issuer := newTestCodec(t, otherKey, clock)
	verifier := newTestCodec(t, testKey, clock)

	tok, err := issuer.IssueAccessToken("a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok.Value)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenSignature))
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

func TestTokenCodec_RejectsForeignIssuer(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	verifier := newTestCodec(t, testKey, clock)
	other, err := NewTokenCodec(TokenConfig{
		Secret:     base64.StdEncoding.EncodeToString(testKey),
		Issuer:     "another-service",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := other.IssueAccessToken("a@x.com")
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(tok.Value)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

func TestTokenCodec_RejectsTamperedPayload(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	codec := newTestCodec(t, testKey, clock)

	tok, err := codec.IssueAccessToken("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	forged, err := codec.IssueAccessToken("admin@x.com")
	require.NoError(t, err)
	parts[1] = strings.Split(forged.Value, ".")[1]

	_, err = codec.Verify(strings.Join(parts, "."))
	assert.True(t, errors.Is(err, ErrTokenSignature))
}

func TestTokenCodec_RejectsUnsupportedAlgorithm(t *testing.T) {
	clock := &fakeClock{t: testEpoch}
	codec := newTestCodec(t, testKey, clock)

	claims := Claims{
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)
	_, err = codec.Verify(hs512)
	assert.True(t, errors.Is(err, ErrTokenUnsupported))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none)
	assert.True(t, errors.Is(err, ErrTokenUnsupported))
}

func TestTokenCodec_RejectsMalformed(t *testing.T) {
	codec := newTestCodec(t, testKey, &fakeClock{t: testEpoch})

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-token"},
		{"bad segments", "not.a.valid.token"},
		{"truncated jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTokenMalformed))
			assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
		})
	}
}

func TestTokenCodec_KindIsEnforced(t *testing.T) {
	codec := newTestCodec(t, testKey, &fakeClock{t: testEpoch})

	access, err := codec.IssueAccessToken("a@x.com")
	require.NoError(t, err)
	refresh, err := codec.IssueRefreshToken("a@x.com")
	require.NoError(t, err)

	// The generic Verify accepts both kinds.
	_, err = codec.Verify(refresh.Value)
	assert.NoError(t, err)

	_, err = codec.VerifyAccess(refresh.Value)
	assert.True(t, errors.Is(err, ErrTokenKind))

	_, err = codec.VerifyRefresh(access.Value)
	assert.True(t, errors.Is(err, ErrTokenKind))
}

func TestTokenCodec_IssueRequiresSubject(t *testing.T) {
	codec := newTestCodec(t, testKey, &fakeClock{t: testEpoch})
	_, err := codec.IssueAccessToken("")
	assert.Error(t, err)
}

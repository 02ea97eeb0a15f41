// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/job-board/internal/config"
	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/middleware"
)

const (
	claimRole         = "role"
	claimTokenVersion = "token_version"
	claimType         = "type"
	tokenTypeAccess   = "access"
)

// JWTManager issues and checks ES256 access tokens.
type JWTManager struct {
	keys     *signingKeys
	issuer   string
	audience string
	ttl      time.Duration
}

// NewJWTManager loads the key pair. With GenerateKeys set, a missing pair is
// created first.
func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	keys, err := loadSigningKeys(cfg)
	if err != nil {
		return nil, err
	}
	return &JWTManager{
		keys:     keys,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.AccessTokenExpire,
	}, nil
}

// TokenClaims are the identity facts baked into an access token.
type TokenClaims struct {
	UserID       int64
	Role         string
	TokenVersion int
}

func (m *JWTManager) CreateAccessToken(
	claims TokenClaims,
) (string, time.Time, error) {
	issuedAt := time.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.issuer).
		Audience([]string{m.audience}).
		Subject(strconv.FormatInt(claims.UserID, 10)).
		IssuedAt(issuedAt).
		NotBefore(issuedAt).
		Expiration(expiresAt).
		Claim(claimRole, claims.Role).
		Claim(claimTokenVersion, claims.TokenVersion).
		Claim(claimType, tokenTypeAccess).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.keys.private))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return string(signed), expiresAt, nil
}

// VerifyAccessToken checks signature, issuer, audience, lifetime and token
// type. Revocation and account state are the caller's concern.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.ParseString(raw,
		jwt.WithKey(jwa.ES256(), m.keys.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithAcceptableSkew(5*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %v: %w", err, core.ErrTokenInvalid)
	}

	claims, err := accessClaims(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %v: %w", err, core.ErrTokenInvalid)
	}
	return claims, nil
}

func accessClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	var (
		tokenType string
		role      string
		version   float64
	)
	if err := token.Get(claimType, &tokenType); err != nil || tokenType != tokenTypeAccess {
		return nil, errors.New("not an access token")
	}
	if err := token.Get(claimRole, &role); err != nil {
		return nil, errors.New("missing role")
	}
	if err := token.Get(claimTokenVersion, &version); err != nil {
		return nil, errors.New("missing token_version")
	}

	subject, _ := token.Subject()
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("bad subject %q", subject)
	}

	jti, _ := token.JwtID()
	if jti == "" {
		return nil, errors.New("missing jti")
	}

	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       userID,
		Role:         role,
		TokenVersion: int(version),
		TokenID:      jti,
		ExpiresAt:    expiresAt,
	}, nil
}

// GetJWKSHandler serves the public key set for clients verifying tokens
// themselves.
func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(m.keys.jwks)
		if err != nil {
			core.InternalServerError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/jwk-set+json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body) //nolint:errcheck // best-effort response write
	}
}

func (m *JWTManager) KeyID() string {
	return m.keys.kid
}

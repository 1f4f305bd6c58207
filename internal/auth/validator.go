// Package auth validates OAuth2 bearer access tokens for the resource server.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	jwtvalidator "github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"

	"cars-api-go/internal/config"
)

// Principal is the authenticated caller extracted from a valid token.
type Principal struct {
	Subject string
	Scopes  []string
}

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Principal, error)
}

// NewValidator picks HMAC validation when a shared secret is configured and
// falls back to JWKS discovery against the issuer otherwise.
func NewValidator(cfg config.AuthConfig) (TokenValidator, error) {
	if cfg.JWTSecret != "" {
		return NewHMACValidator([]byte(cfg.JWTSecret), cfg.IssuerURL, cfg.Audience, cfg.ClockSkew), nil
	}
	if cfg.IssuerURL != "" {
		return NewJWKSValidator(cfg.IssuerURL, cfg.Audience, cfg.JWKSCacheTTL, cfg.ClockSkew)
	}
	return nil, errors.New("no token validation method configured")
}

// accessClaims are the claims read from an HMAC-signed access token.
type accessClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

type HMACValidator struct {
	secret   []byte
	issuer   string
	audience []string
	leeway   time.Duration
}

func NewHMACValidator(secret []byte, issuer string, audience []string, leeway time.Duration) *HMACValidator {
	return &HMACValidator{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		leeway:   leeway,
	}
}

func (v *HMACValidator) ValidateToken(ctx context.Context, tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if len(v.audience) > 0 && !audienceMatches(claims.Audience, v.audience) {
		return nil, errors.New("token audience not accepted")
	}

	return &Principal{
		Subject: claims.Subject,
		Scopes:  strings.Fields(claims.Scope),
	}, nil
}

func audienceMatches(tokenAudience jwt.ClaimStrings, accepted []string) bool {
	for _, aud := range tokenAudience {
		for _, want := range accepted {
			if aud == want {
				return true
			}
		}
	}
	return false
}

// scopeClaims carries the space separated scope claim through the auth0 validator.
type scopeClaims struct {
	Scope string `json:"scope"`
}

func (c *scopeClaims) Validate(ctx context.Context) error {
	return nil
}

// JWKSValidator validates RS256 tokens against the issuer's published keys.
type JWKSValidator struct {
	validator *jwtvalidator.Validator
}

func NewJWKSValidator(issuerURL string, audience []string, cacheTTL, clockSkew time.Duration) (*JWKSValidator, error) {
	issuer, err := url.Parse(issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issuer URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuer, cacheTTL)

	v, err := jwtvalidator.New(
		provider.KeyFunc,
		jwtvalidator.RS256,
		issuerURL,
		audience,
		jwtvalidator.WithAllowedClockSkew(clockSkew),
		jwtvalidator.WithCustomClaims(func() jwtvalidator.CustomClaims {
			return &scopeClaims{}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the validator: %w", err)
	}

	return &JWKSValidator{validator: v}, nil
}

func (v *JWKSValidator) ValidateToken(ctx context.Context, tokenString string) (*Principal, error) {
	raw, err := v.validator.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := raw.(*jwtvalidator.ValidatedClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	principal := &Principal{Subject: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*scopeClaims); ok {
		principal.Scopes = strings.Fields(custom.Scope)
	}
	return principal, nil
}

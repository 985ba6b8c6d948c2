package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

// JWTConfig holds the codec configuration, injected at construction.
type JWTConfig struct {
	Secret         string
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
}

// JWTService encodes and decodes HS256 access tokens. Decoding always
// returns a typed error; it never panics on garbage input.
type JWTService struct {
	cfg    JWTConfig
	secret []byte
}

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt signing secret is required")
	}
	return &JWTService{cfg: cfg, secret: []byte(cfg.Secret)}, nil
}

// GenerateAccessToken signs a token for the subject with a fresh jti.
func (s *JWTService) GenerateAccessToken(subjectID uuid.UUID) (string, *models.Claims, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, claims, nil
}

// ValidateAccessToken verifies signature, expiry, issuer and audience.
func (s *JWTService) ValidateAccessToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domainErrors.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, domainErrors.ErrInvalidIssuerOrAudience
		default:
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, domainErrors.ErrInvalidToken
	}

	if claims.Issuer != s.cfg.Issuer {
		return nil, domainErrors.ErrInvalidIssuerOrAudience
	}
	validAudience := false
	for _, aud := range claims.Audience {
		if aud == s.cfg.Audience {
			validAudience = true
			break
		}
	}
	if !validAudience {
		return nil, domainErrors.ErrInvalidIssuerOrAudience
	}
	return claims, nil
}

// AccessTokenTTL exposes the configured lifetime for expires_in fields.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.cfg.AccessTokenTTL
}

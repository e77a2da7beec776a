package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/platform/apierr"
	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

// AuthService verifies bearer tokens minted by the hosted identity provider.
// Sign-up and sign-in live there; this service only trusts the shared secret.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log *logger.Logger
	cfg AuthConfig
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) (AuthService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("missing AUTH_JWT_SECRET")
	}
	return &authService{
		log: log.With("service", "AuthService"),
		cfg: cfg,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", apierr.ErrUnauthorized)
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if as.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.cfg.Issuer))
	}
	if as.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(as.cfg.Audience))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.New(http.StatusUnauthorized, "token_expired", err)
		}
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid user id in token"))
	}
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	})
	return ctx, nil
}

// IssueToken mints a token the way the identity provider does. Used by local
// tooling and tests.
func (as *authService) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    as.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if as.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{as.cfg.Audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.Secret))
}

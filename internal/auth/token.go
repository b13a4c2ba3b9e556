package auth

import (
	"fmt"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/golang-jwt/jwt/v4"
)

// Claims are the identity fields the API reads from a bearer token
type Claims struct {
	UserID   string
	TenantID string
}

// Tokens signs and validates HS256 bearer tokens with the configured secret
type Tokens struct {
	secret []byte
}

func NewTokens(cfg *config.Configuration) *Tokens {
	return &Tokens{secret: []byte(cfg.Auth.Secret)}
}

// Enabled reports whether a signing secret is configured
func (t *Tokens) Enabled() bool {
	return len(t.secret) > 0
}

func (t *Tokens) ValidateToken(token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrPermissionDenied)
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	tenantID, _ := claims["tenant_id"].(string)
	if tenantID == "" {
		return nil, ierr.NewError("token missing tenant ID").
			WithHint("Token missing tenant ID").
			Mark(ierr.ErrPermissionDenied)
	}
	userID, _ := claims["user_id"].(string)

	return &Claims{UserID: userID, TenantID: tenantID}, nil
}

// GenerateToken issues a token for operators and tests
func (t *Tokens) GenerateToken(userID, tenantID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"tenant_id": tenantID,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

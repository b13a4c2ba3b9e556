package internal

import (
	"fmt"
	"time"

	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/config"
)

// IssueToken prints a bearer token carrying the tenant claim
func IssueToken(tenantID, userID string, ttl time.Duration) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tokens := auth.NewTokens(cfg)
	if !tokens.Enabled() {
		return fmt.Errorf("auth.secret is not configured")
	}

	token, err := tokens.GenerateToken(userID, tenantID, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

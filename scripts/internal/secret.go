package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret prints a random 256-bit hex secret suitable for auth.secret
func GenerateSecret() error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("unable to generate secret: %w", err)
	}
	fmt.Println(hex.EncodeToString(key))
	return nil
}

package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/yukikurage/standup-api/internal/constants"
)

// GenerateInvitationToken returns a URL-safe token carrying
// constants.InvitationTokenBytes bytes of randomness.
func GenerateInvitationToken() (string, error) {
	bytes := make([]byte, constants.InvitationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

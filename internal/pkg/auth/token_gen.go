package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// InvitationTokenBytes is the entropy of an invitation token. 32 bytes hex
// encodes to a 64-character token.
const InvitationTokenBytes = 32

// GenerateInvitationToken returns a cryptographically random, hex-encoded
// single-use invitation token.
func GenerateInvitationToken() (string, error) {
	buf := make([]byte, InvitationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

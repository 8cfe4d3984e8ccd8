package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvitationToken(t *testing.T) {
	token, err := GenerateInvitationToken()
	require.NoError(t, err)

	assert.Len(t, token, InvitationTokenBytes*2)

	decoded, err := hex.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, decoded, InvitationTokenBytes)
}

func TestGenerateInvitationTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateInvitationToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "token generated twice")
		seen[token] = true
	}
}

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rajat290/notekeeper/internal/common"
)

// resetTokenSize is the number of random bytes in a reset token.
const resetTokenSize = 20

// ResetToken is a freshly issued password reset token. Plain goes to the user
// by email; only Hash and ExpiresAt are stored.
type ResetToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// NewResetToken issues a random reset token valid for ttl from now.
func NewResetToken(ttl time.Duration) (*ResetToken, error) {
	plain, err := common.MakeRandHexString(resetTokenSize)
	if err != nil {
		return nil, err
	}

	return &ResetToken{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashResetToken returns the hex SHA-256 digest under which a reset token is
// stored and looked up.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

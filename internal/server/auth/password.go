package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/rajat290/notekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argon2Time      = 3
	argon2Memory    = 64 * 1024 // KiB
	argon2Threads   = 2
	argon2KeyLength = 32
	saltLength      = 16
)

var ErrInvalidHash = errors.New("invalid password hash format")

// PasswordHasher hashes passwords with argon2id. The parameters are encoded
// into every hash, so hashes made with other parameters still verify.
type PasswordHasher struct {
	time    uint32
	memory  uint32
	threads uint8
}

// NewPasswordHasher returns a hasher with production parameters.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithParams(argon2Time, argon2Memory, argon2Threads)
}

// NewPasswordHasherWithParams returns a hasher using the given argon2id cost
// parameters; memory is in KiB.
func NewPasswordHasherWithParams(time, memory uint32, threads uint8) *PasswordHasher {
	return &PasswordHasher{time: time, memory: memory, threads: threads}
}

// Hash returns the encoded argon2id hash of password:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(saltLength)

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, argon2KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.time,
		h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrInvalidHash
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %d", ErrInvalidHash, version)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidHash
	}

	candidate := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

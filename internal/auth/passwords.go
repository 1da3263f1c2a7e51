package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// The user file predates hashing and mostly carries plaintext passwords.
// Records can be upgraded in place to argon2id hashes; the verifier picks the
// comparison from the stored value so routing and throttling never care.

const argon2idPrefix = "$argon2id$"

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

var defaultArgon2idParams = argon2Params{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 2,
}

// VerifyCredential compares a supplied password against the stored record
// value: argon2id when the record carries a hash, constant-time plaintext
// comparison otherwise.
func VerifyCredential(stored, supplied string) (bool, error) {
	if strings.HasPrefix(stored, argon2idPrefix) {
		return verifyArgon2id(stored, supplied)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1, nil
}

// HashPassword produces an argon2id hash string suitable for the user file.
func HashPassword(plaintext string) (string, error) {
	p := defaultArgon2idParams

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, p.iterations, p.memory, p.parallelism, 32)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=19$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		p.memory,
		p.iterations,
		p.parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func verifyArgon2id(hash, plaintext string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return false, errors.New("unsupported argon2 version")
	}

	var p argon2Params
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return false, errors.New("invalid argon2 params")
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return false, fmt.Errorf("invalid argon2 param %q", k)
		}
		switch k {
		case "m":
			p.memory = uint32(n)
		case "t":
			p.iterations = uint32(n)
		case "p":
			p.parallelism = uint8(n)
		default:
			return false, errors.New("unknown argon2 param")
		}
	}

	if p.memory == 0 || p.iterations == 0 || p.parallelism == 0 {
		return false, errors.New("missing argon2 params")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, errors.New("invalid argon2 salt")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, errors.New("invalid argon2 key")
	}

	otherKey := argon2.IDKey([]byte(plaintext), salt, p.iterations, p.memory, p.parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, otherKey) == 1, nil
}

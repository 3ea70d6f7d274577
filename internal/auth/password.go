package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedHash    = errors.New("unsupported password hash")
)

// VerifyPassword checks password against the crypt(3)-format hash
// stored in the config: $1$ (md5-crypt), $5$ (sha256-crypt) or
// $6$ (sha512-crypt).
func VerifyPassword(hash, password string) error {
	hash = strings.TrimSpace(hash)
	if hash == "" || strings.HasPrefix(hash, "!") || strings.HasPrefix(hash, "*") {
		return ErrInvalidCredentials
	}

	var crypters []crypt.Crypter
	crypters = append(crypters, sha512_crypt.New())
	crypters = append(crypters, sha256_crypt.New())
	crypters = append(crypters, md5_crypt.New())

	// Verify returns nil on success.
	for _, c := range crypters {
		if err := c.Verify(hash, []byte(password)); err == nil {
			return nil
		}
	}

	// Flag obviously unsupported formats (yescrypt, scrypt, bcrypt)
	// so the operator gets a useful log line instead of a silent
	// mismatch.
	if strings.HasPrefix(hash, "$y$") || strings.HasPrefix(hash, "$7$") || strings.HasPrefix(hash, "$2") {
		return ErrUnsupportedHash
	}
	return ErrInvalidCredentials
}

// HashPassword produces a sha512-crypt hash for the config's
// editor_password_hash field.
func HashPassword(password string) (string, error) {
	return sha512_crypt.New().Generate([]byte(password), nil)
}

func HumanAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrUnsupportedHash):
		return "The configured password hash format is not supported; regenerate it with deckviewd hash-password."
	default:
		return fmt.Sprintf("Authentication failed: %v", err)
	}
}

package auth

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptPrefix tags the modern credential format. Anything not matching it
// is treated as a legacy plain-text credential.
const bcryptPrefix = "$2"

// VerifyCredential checks a submitted secret against the stored credential.
//
// Modern (bcrypt-hashed) credentials are compared by the library, which is
// constant-time over the hash. Legacy plain-text credentials are compared
// in constant time; on a successful legacy match, upgraded carries a fresh
// bcrypt hash the caller must persist in place of the plain-text value.
func VerifyCredential(submitted, stored string) (ok bool, upgraded string) {
	if strings.HasPrefix(stored, bcryptPrefix) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil, ""
	}

	// Legacy plain-text credential.
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return false, ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(submitted), bcrypt.DefaultCost)
	if err != nil {
		// Login still succeeds; the legacy value stays in place and the
		// upgrade is retried on the next login.
		slog.Warn("hashing legacy credential failed", "error", err)
		return true, ""
	}
	return true, string(hash)
}

// IsLegacyCredential reports whether the stored value is still in the
// legacy plain-text format.
func IsLegacyCredential(stored string) bool {
	return !strings.HasPrefix(stored, bcryptPrefix)
}

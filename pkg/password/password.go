// Package password hashes and verifies admin credentials.
//
// New hashes are bcrypt. Hashes carried over from the legacy store have the form
// hex(scrypt(password, salt, N=16384, r=8, p=1, keyLen=64)) + "." + salt and are
// still accepted by Verify.
package password

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// ErrMismatch is returned when the password does not match the hash.
var ErrMismatch = errors.New("password mismatch")

// dummyHash is compared against when the user does not exist so lookups take comparable time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// Hash returns a bcrypt hash of plain.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks plain against a bcrypt or legacy scrypt hash.
func Verify(hash, plain string) error {
	if IsLegacy(hash) {
		return verifyScrypt(hash, plain)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// VerifyDummy burns the same work as a real bcrypt comparison and always fails.
func VerifyDummy(plain string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
	return ErrMismatch
}

// IsLegacy reports whether hash is in the scrypt "hex.salt" format.
func IsLegacy(hash string) bool {
	if strings.HasPrefix(hash, "$2") {
		return false
	}
	key, salt, ok := strings.Cut(hash, ".")
	return ok && salt != "" && len(key) == scryptKeyLen*2
}

func verifyScrypt(hash, plain string) error {
	keyHex, salt, _ := strings.Cut(hash, ".")
	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return ErrMismatch
	}
	derived, err := scrypt.Key([]byte(plain), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(stored, derived) != 1 {
		return ErrMismatch
	}
	return nil
}

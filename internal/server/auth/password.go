package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen     = 16
	argonTime   = 1
	argonMemory = 64 * 1024
	argonLanes  = 4
	argonKeyLen = 32
)

func NewSalt() []byte {
	return common.GenerateRandByteArray(saltLen)
}

// HashPassword derives an argon2id key from password and salt.
func HashPassword(password string, salt []byte) []byte {
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return argon2.IDKey(pw, salt, argonTime, argonMemory, argonLanes, argonKeyLen)
}

func VerifyPassword(password string, salt, hash []byte) bool {
	got := HashPassword(password, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, hash) == 1
}

package config

import (
	"crypto/rand"
	"math/big"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "@#$%&*"
	allChars     = lowerChars + upperChars + digitChars + specialChars
)

// GenerateSecurePassword produces a random password of the given length with
// at least one lowercase letter, uppercase letter, digit and special
// character. Lengths below 4 are raised to 4 so each class fits.
func GenerateSecurePassword(length int) string {
	if length < 4 {
		length = 4
	}

	password := make([]byte, 0, length)
	password = append(password,
		randomByte(lowerChars),
		randomByte(upperChars),
		randomByte(digitChars),
		randomByte(specialChars),
	)
	for len(password) < length {
		password = append(password, randomByte(allChars))
	}

	// Fisher-Yates so the mandatory classes are not always at the front.
	for i := len(password) - 1; i > 0; i-- {
		j := randomInt(i + 1)
		password[i], password[j] = password[j], password[i]
	}
	return string(password)
}

func randomByte(charset string) byte {
	return charset[randomInt(len(charset))]
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// nothing sensible to fall back to.
		panic(err)
	}
	return int(v.Int64())
}

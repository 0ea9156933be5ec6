package shortcode

import (
	"crypto/rand"
	"math/big"
)

const (
	DefaultLength = 6
	MinLength     = 3
	MaxLength     = 20

	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var alphabetLen = big.NewInt(int64(len(Alphabet)))

func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength draws each character independently and uniformly from
// Alphabet. It does not check for collisions.
func GenerateWithLength(length int) (string, error) {
	code := make([]byte, length)

	for i := range code {
		randomIndex, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = Alphabet[randomIndex.Int64()]
	}

	return string(code), nil
}

package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const lowerAlphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureRandomString crypto/rand ile küçük harf + rakamlardan oluşan bir dizi üretir.
func GenerateSecureRandomString(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("uzunluk pozitif olmalı")
	}
	max := big.NewInt(int64(len(lowerAlphanumeric)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = lowerAlphanumeric[n.Int64()]
	}
	return string(out), nil
}

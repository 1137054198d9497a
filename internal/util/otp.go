package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// OTPDigits is the fixed length of every one-time code handed to users.
const OTPDigits = 6

func GenerateNumericOTP(digits int) (string, error) {
	if digits <= 0 {
		digits = OTPDigits
	}
	var builder strings.Builder
	builder.Grow(digits)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		builder.WriteByte(byte('0' + n.Int64()))
	}
	return builder.String(), nil
}

// IsNumericOTP reports whether code is exactly digits ASCII digits.
func IsNumericOTP(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

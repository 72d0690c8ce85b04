package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MakeOTPCode returns a random numeric code of the given length, suitable
// for one-time passcodes. It uses crypto/rand.
func MakeOTPCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// WipeByteArray overwrites the contents of b with zeros. Used to clear
// password buffers once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

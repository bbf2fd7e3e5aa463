// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"crypto/rand"
)

// GenerateOTP returns a fixed-length numeric code. Uses crypto/rand
// since guessing the code is the whole attack surface here. Bytes of
// 250 and above are rejected so every digit is equally likely.
func GenerateOTP(length int) (string, error) {
	code := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(code) < length {
		_, err := rand.Read(buf)
		if err != nil {
			return "", err
		}

		for _, b := range buf {
			if b >= 250 {
				continue
			}

			code = append(code, '0'+b%10)
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}

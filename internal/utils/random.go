package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateBookingNumber produces a human-readable booking reference like
// BK-20260830-483921.
func GenerateBookingNumber() string {
	return fmt.Sprintf("BK-%s-%s", time.Now().Format("20060102"), GenerateRandomNumericString(6))
}

// GenerateDisputeNumber produces a dispute reference like DSP-20260830-4821.
func GenerateDisputeNumber() string {
	return fmt.Sprintf("DSP-%s-%s", time.Now().Format("20060102"), GenerateRandomNumericString(4))
}

package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUniqueID creates a secure random string of specified length
func GenerateUniqueID(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateItemID returns a public product id such as AX-1f3a9c0b.
func GenerateItemID() string {
	return "AX-" + uuid.NewString()[:8]
}

// GenerateOrderNumber returns an order number such as AX-20240131-9F2C1A.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "AX-" + now.UTC().Format("20060102") + "-" + suffix
}

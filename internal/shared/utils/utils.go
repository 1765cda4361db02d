package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber builds a human-readable order number: ORD-20240101-XXXXXX
func GenerateOrderNumber(now time.Time) string {
	const digits = "0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			n = big.NewInt(0)
		}
		suffix[i] = digits[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), string(suffix))
}

// GenerateSlug builds a URL slug from a title
func GenerateSlug(title string) string {
	title = strings.ToLower(title)
	title = strings.ReplaceAll(title, " ", "-")

	// Keep a-z, 0-9, -
	reg := regexp.MustCompile("[^a-z0-9-]+")
	title = reg.ReplaceAllString(title, "")

	// Collapse duplicate hyphens
	title = regexp.MustCompile("-+").ReplaceAllString(title, "-")

	return strings.Trim(title, "-")
}

// IsValidUUID checks UUID string format
func IsValidUUID(u string) bool {
	if len(u) != 36 {
		return false
	}
	_, err := uuid.Parse(u)
	return err == nil
}

package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	hyphenRuns   = regexp.MustCompile("-+")
)

// NewID generates a document ID
func NewID() string {
	return uuid.NewString()
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateInvoiceNo generates a unique invoice number
func GenerateInvoiceNo(prefix string) string {
	return prefix + shortCode()
}

// GenerateBookingRef generates a booking reference
func GenerateBookingRef() string {
	return "BK-" + shortCode()
}

// GenerateSKU generates a product code
func GenerateSKU() string {
	return "PROD-" + shortCode()
}

func shortCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

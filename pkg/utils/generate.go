package utils

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// ==================== BOOKING REFERENCE ====================

// GenerateBookingReference returns BOOK-YYYYMMDD-HHMMSS-NNNN for t.
func GenerateBookingReference(t time.Time) string {
	return fmt.Sprintf("BOOK-%s-%s-%04d", t.Format("20060102"), t.Format("150405"), rand.IntN(10000))
}

// ==================== PARSING ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

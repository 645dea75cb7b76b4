package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode returns a short human-quotable booking reference,
// e.g. "RSV-9F3A1C7B". Uniqueness is enforced by the orders table's unique
// index; a UUID prefix collision there is practically unreachable.
func NewReferenceCode() string {
	id := uuid.New().String()
	return "RSV-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

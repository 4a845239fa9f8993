package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadReference = errors.New("malformed payment reference")

// MintPaymentReference builds the gateway reference for an order. The order
// id is embedded so the callback handler can recover the order even when
// all session-side context has been lost.
func MintPaymentReference(orderID uint64, now time.Time) string {
	return fmt.Sprintf("SF_%d_%d", orderID, now.Unix())
}

// ParsePaymentReference recovers the order id from a reference minted by
// MintPaymentReference. The input arrives from a public callback endpoint,
// so anything that does not match the exact shape is rejected.
func ParsePaymentReference(reference string) (uint64, error) {
	parts := strings.Split(reference, "_")
	if len(parts) != 3 || parts[0] != "SF" {
		return 0, ErrBadReference
	}
	orderID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || orderID == 0 {
		return 0, ErrBadReference
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return 0, ErrBadReference
	}
	return orderID, nil
}

// NewOrderNumber mints a human-readable order number: SF + date + 6 random
// hex chars. Uniqueness is not guaranteed here; callers must check against
// storage and retry on collision.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return "SF" + now.Format("20060102") + suffix
}

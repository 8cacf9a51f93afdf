package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// MapStatus translates the gateway's transaction_status / fraud_status pair.
// Unknown statuses are treated as pending so nothing is cleared on a guess.
func MapStatus(transactionStatus, fraudStatus string) OutcomeKind {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return OutcomeSuccess
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return OutcomeSuccess
		case "challenge":
			return OutcomePending
		default:
			return OutcomeError
		}
	case "pending", "authorize":
		return OutcomePending
	case "deny", "cancel", "expire", "failure", "refund", "partial_refund", "chargeback", "partial_chargeback":
		return OutcomeError
	default:
		return OutcomePending
	}
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(n Notification, serverKey string) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

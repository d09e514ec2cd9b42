package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/tribemart/tribemart-orders-service/internal/apperrors"
)

// Verifier proves that a payment confirmation originated from the gateway.
// The gateway signs hex(HMAC-SHA256(secret, orderID + "|" + paymentID)) with
// the same key secret used to open the order.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given gateway key secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes the expected signature and compares it in constant time
// against the supplied one. Any mismatch returns ErrPaymentVerification.
func (v *Verifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) error {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return apperrors.ErrPaymentVerification
	}

	expected := v.Sign(gatewayOrderID, gatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrPaymentVerification
	}
	return nil
}

// Sign computes the gateway signature for an order/payment id pair.
func (v *Verifier) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

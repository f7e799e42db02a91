// Package services holds the proof-of-delivery protocol: signing, issuing and
// verifying delivery tokens, and encoding them into scannable payloads.
//
// The package includes:
//   - TokenSigner: HMAC-SHA256 over "orderId:issuedAtMillis"
//   - DeliveryTokenIssuer: signs a token and stores it on an order
//   - DeliveryTokenVerifier: checks TTL, signature and the stored token, then redeems
//   - FormatDeliveryPayload / ParseDeliveryPayload: the "DLVQR|v1|..." wire format
//
// The services work on any aggregate that satisfies TokenHolder or RedemptionTarget,
// so orders and origin orders share one protocol.
package services

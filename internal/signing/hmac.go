// Package signing implements the HMAC-SHA256 request authentication scheme
// shared by the inbound HTTP API and the outbound callback/backlinks
// emitters: sign(secret, timestamp || body), carried as a hex-encoded
// "hmac-sha256=<hex>" header alongside a unix-seconds timestamp header.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MaxTimestampDriftSecs bounds how far a signed request's timestamp may
// drift from the verifier's clock, in either direction.
const MaxTimestampDriftSecs = 300

// SignaturePrefix is prepended to the hex digest in the signature header.
const SignaturePrefix = "hmac-sha256="

var (
	// ErrMissingSignature is returned when no signature header is present.
	ErrMissingSignature = errors.New("signing: missing signature")
	// ErrBadTimestamp is returned when the timestamp header is absent or
	// unparseable.
	ErrBadTimestamp = errors.New("signing: missing or invalid timestamp")
	// ErrDrift is returned when the timestamp falls outside the allowed
	// drift window.
	ErrDrift = errors.New("signing: timestamp outside allowed drift window")
	// ErrMismatch is returned when the computed digest doesn't match the
	// supplied one.
	ErrMismatch = errors.New("signing: signature mismatch")
)

// Sign computes the hex-encoded HMAC-SHA256 digest over timestamp||body
// using secret as the key and returns the bare hex digest, without the
// hmac-sha256= prefix; Header returns the full "X-Signature" value.
func Sign(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Header returns the full "X-Signature" header value for a signed request.
func Header(secret string, timestamp int64, body []byte) string {
	return SignaturePrefix + Sign(secret, timestamp, body)
}

// Verify checks a signature header and timestamp header against body,
// using now as the reference clock. It enforces the drift window and
// returns a sentinel error describing the failure.
func Verify(secret, signatureHeader, timestampHeader string, body []byte, now time.Time) error {
	if signatureHeader == "" {
		return ErrMissingSignature
	}
	if timestampHeader == "" {
		return ErrBadTimestamp
	}
	ts, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return ErrBadTimestamp
	}
	drift := now.Unix() - ts
	if drift > MaxTimestampDriftSecs || drift < -MaxTimestampDriftSecs {
		return ErrDrift
	}

	digest := signatureHeader
	if len(digest) > len(SignaturePrefix) && digest[:len(SignaturePrefix)] == SignaturePrefix {
		digest = digest[len(SignaturePrefix):]
	}
	expected := Sign(secret, ts, body)
	if !hmac.Equal([]byte(expected), []byte(digest)) {
		return ErrMismatch
	}
	return nil
}

// MaxBodyBytes bounds the size of a signed request body accepted by the
// HTTP surface.
const MaxBodyBytes = 10 << 20 // 10 MiB

// ErrBodyTooLarge is returned when a signed request body exceeds
// MaxBodyBytes.
var ErrBodyTooLarge = fmt.Errorf("signing: body exceeds %d bytes", MaxBodyBytes)

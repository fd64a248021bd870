// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidSinkKey = errors.New("invalid sink key")

// sinkKeySubject is the fixed HMAC subject for the sink callback key.
// The key identifies the one trusted chat-workspace integration, not
// individual users, so a single derived credential is enough.
const sinkKeySubject = "sink-callback-v1"

// GenerateSinkKey derives the callback key the chat-workspace sink must
// present in the X-Sink-Key header. Deterministic from the salt, so the
// key never needs to be stored.
func GenerateSinkKey(salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(sinkKeySubject))
	sum := h.Sum(nil)
	// URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateSinkKey checks a presented callback key in constant time.
func ValidateSinkKey(key, salt string) error {
	expected := GenerateSinkKey(salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidSinkKey
	}
	return nil
}

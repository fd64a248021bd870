// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the callback-key scheme for the sink-facing API.

# Sink Keys

The chat-workspace integration authenticates its callbacks with an
HMAC-SHA256 key derived from a shared salt:

	key := auth.GenerateSinkKey(salt)
	err := auth.ValidateSinkKey(presented, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, validation needs no storage: derive and compare in
constant time. Rotating SINK_KEY_SALT rotates the key.
*/
package auth

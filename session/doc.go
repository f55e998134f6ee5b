// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session mints and verifies opaque session tokens.

A session token correlates a browser to its vote records without any
authentication. Tokens are 24 random bytes, carried in a signed httpOnly
cookie valid for 30 days:

	sessionId=<token>.<hmac-sha256(token, secret)>

# Minting

	token, err := session.MintToken()
	session.SetCookie(w, token, cfg.SessionSecret)

# Verification

	token, err := session.FromRequest(r, cfg.SessionSecret)

FromRequest returns an empty token for requests without a cookie, and
ErrInvalidCookie when the signature does not match (the caller treats
that the same as no session and mints a fresh one).
*/
package session

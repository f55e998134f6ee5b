// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieName is the session cookie set on vote responses.
const CookieName = "sessionId"

// MaxAge is the session cookie lifetime in seconds (30 days).
const MaxAge = 60 * 60 * 24 * 30

// MintToken creates a random session token for a voter.
// The token is the join key between a browser and its vote records.
func MintToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// Sign computes the HMAC signature of a session token.
// This is deterministic and verifiable.
func Sign(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for a cleaner cookie value
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// Encode produces the signed cookie value "token.signature".
func Encode(token, secret string) string {
	return token + "." + Sign(token, secret)
}

// Decode verifies a signed cookie value and returns the embedded token.
func Decode(value, secret string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", ErrInvalidCookie
	}
	token, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(Sign(token, secret))) {
		return "", ErrInvalidCookie
	}
	return token, nil
}

// SetCookie writes the signed session cookie on the response.
// httpOnly keeps the token out of reach of page scripts.
func SetCookie(w http.ResponseWriter, token, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    Encode(token, secret),
		Path:     "/",
		MaxAge:   MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and verifies the session token from the request
// cookie. A missing cookie returns ("", nil); a present but tampered
// cookie returns ErrInvalidCookie so callers can decide to re-mint.
func FromRequest(r *http.Request, secret string) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", nil
	}
	return Decode(c.Value, secret)
}

// Package email normalizes addresses and derives gravatar avatars from them.
package email

import (
	"crypto/md5" //nolint:gosec // gravatar keys are md5 by definition
	"encoding/hex"
	"net/mail"
	"net/url"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// Normalize trims and lowercases an address so it can be used as a lookup key.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValid accepts a bare address with a local part and a dotted domain.
func IsValid(address string) bool {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return false
	}
	at := strings.LastIndexByte(address, '@')
	return at > 0 && strings.Contains(address[at+1:], ".")
}

// AvatarURL returns the gravatar for address: 200px, rated PG, falling back
// to the mystery-person image.
func AvatarURL(address string) string {
	sum := md5.Sum([]byte(Normalize(address))) //nolint:gosec
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// signPaymentReturn computes the signature the payment gateway attaches to
// return callbacks: all query parameters except the signature itself, sorted
// by key, joined as key=value pairs and signed with HMAC-SHA256.
func signPaymentReturn(values url.Values, secret string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "sign" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifyPaymentReturn checks the callback signature. An empty secret
// disables verification; the comparison is case-insensitive to match the
// gateway's hex casing.
func verifyPaymentReturn(values url.Values, secret string) bool {
	if secret == "" {
		return true
	}
	received := values.Get("sign")
	if received == "" {
		return false
	}
	expected := signPaymentReturn(values, secret)
	return hmac.Equal([]byte(strings.ToLower(expected)), []byte(strings.ToLower(received)))
}
